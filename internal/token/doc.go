// Package token defines the token model shared by the template tokenizer and
// the code emitter.
package token
