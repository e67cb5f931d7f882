// Package security seals configuration secrets such as the reasoning API key.
//
// A sealed value looks like "sealed:v1:<base64>" and may be stored in the
// YAML config or a .env file. The passphrase comes from
// GHOSTPAYROLL_SECURITY_SECRET_PASSPHRASE; without one, sealed values fail
// to open and plain values pass through untouched.
//
// Key derivation uses scrypt (N=32768, r=8, p=1); encryption is AES-256-GCM
// with the prefix as additional data.
package security
