package totp

import (
	"bytes"
	"errors"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Issuer is embedded in otpauth URIs and shown by authenticator apps.
	Issuer = "Crashify"

	// SecretSize is the raw secret length in bytes (160 bits per RFC 4226).
	SecretSize = 20

	// Period is the TOTP time step in seconds.
	Period = 30

	// Skew is the number of adjacent time steps accepted on either side of
	// now, tolerating client clock drift.
	Skew = 1
)

var ErrEmptySecret = errors.New("totp secret is empty")

// Enrollment carries everything a client needs to register the secret in an
// authenticator app. The caller is responsible for persisting Secret.
type Enrollment struct {
	Secret     string // base32, no padding issues for authenticator apps
	OtpauthURI string
	QRCodePNG  []byte
}

// GenerateSecret creates a fresh random shared secret bound to the given
// account label, plus the otpauth URI and a QR rendering of it.
func GenerateSecret(accountLabel string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: accountLabel,
		SecretSize:  SecretSize,
		Period:      Period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	img, err := key.Image(256, 256)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &Enrollment{
		Secret:     key.Secret(),
		OtpauthURI: key.URL(),
		QRCodePNG:  buf.Bytes(),
	}, nil
}

// Verify reports whether code is valid for secret at the current time,
// accepting codes from the current step and one step on either side.
func Verify(code, secret string) (bool, error) {
	return VerifyAt(code, secret, time.Now())
}

// VerifyAt is Verify with an explicit reference time.
func VerifyAt(code, secret string, at time.Time) (bool, error) {
	if secret == "" {
		return false, ErrEmptySecret
	}

	valid, err := totp.ValidateCustom(code, secret, at.UTC(), totp.ValidateOpts{
		Period:    Period,
		Skew:      Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		// ValidateCustom only errors on malformed input, never on a
		// well-formed wrong code.
		return false, nil
	}

	return valid, nil
}

// CodeAt derives the 6-digit code for secret at the given time. Test helper
// and enrollment self-check.
func CodeAt(secret string, at time.Time) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	return totp.GenerateCode(secret, at.UTC())
}
