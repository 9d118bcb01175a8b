package mailer

// TopicVerification is the bus topic for verification mail requests.
const TopicVerification = "mail.verification"

// VerificationRequested asks the mailer to send a verification email.
// Published by the user service on registration and email change; delivery
// is best-effort and never blocks the request that triggered it.
type VerificationRequested struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
