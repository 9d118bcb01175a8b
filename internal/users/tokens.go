package users

import "github.com/jaevor/go-nanoid"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewTokenGenerator builds the generator for verification tokens.
func NewTokenGenerator() (TokenGenerator, error) {
	gen, err := nanoid.CustomASCII(tokenAlphabet, verificationTokenLength)
	if err != nil {
		return nil, err
	}

	return TokenGenerator(gen), nil
}
