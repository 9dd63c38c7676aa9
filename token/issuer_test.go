package token_test

import (
	"testing"
	"time"

	"github.com/authgate/authgate/token"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestIssueAndDecode(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)

	signed, err := issuer.Issue("john.doe@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := issuer.Decode(signed)
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", claims.Subject)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestDecodeWrongSecret(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	other := token.NewIssuer("a-different-secret", time.Hour)

	signed, err := other.Issue("john.doe@example.com")
	require.NoError(t, err)

	_, err = issuer.Decode(signed)
	require.ErrorIs(t, err, token.ErrInvalidSignature)
}

func TestDecodeExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := token.NewIssuer(testSecret, time.Hour, token.WithNowFunc(func() time.Time { return past }))

	signed, err := issuer.Issue("john.doe@example.com")
	require.NoError(t, err)

	verifier := token.NewIssuer(testSecret, time.Hour)
	_, err = verifier.Decode(signed)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestDecodeMalformed(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)

	for _, garbage := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := issuer.Decode(garbage)
		require.ErrorIs(t, err, token.ErrMalformedToken, "input %q", garbage)
	}
}

func TestDecodeRejectsOtherSigningMethods(t *testing.T) {
	// A token signed with HS512 and the correct secret must still be
	// rejected: only HS256 is an accepted method.
	claims := jwtlib.RegisteredClaims{
		Subject:   "john.doe@example.com",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	issuer := token.NewIssuer(testSecret, time.Hour)
	_, err = issuer.Decode(signed)
	require.ErrorIs(t, err, token.ErrInvalidSignature)
}
