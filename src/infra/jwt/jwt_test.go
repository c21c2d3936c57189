package jwt_test

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/infra/jwt"
)

var _ = Describe("TokenVerifier", func() {
	const (
		secret = "test-secret"
		issuer = "campus-records-api"
	)

	var verifier *jwt.TokenVerifier

	BeforeEach(func() {
		verifier = jwt.NewTokenVerifier(secret, issuer)
	})

	It("returns the principal of a valid token", func() {
		token, err := jwt.NewTokenIssuer(secret, issuer, time.Minute).Issue("admin@ucsb.edu", "ROLE_ADMIN", "ROLE_USER")
		Expect(err).NotTo(HaveOccurred())

		principal, err := verifier.Verify(token)

		Expect(err).NotTo(HaveOccurred())
		Expect(principal).To(Equal(domain.Principal{Subject: "admin@ucsb.edu", Roles: []string{"ROLE_ADMIN", "ROLE_USER"}}))
	})

	It("rejects a token signed with another secret", func() {
		token, _ := jwt.NewTokenIssuer("other-secret", issuer, time.Minute).Issue("user@ucsb.edu", "ROLE_USER")

		_, err := verifier.Verify(token)

		Expect(err).To(MatchError(domain.ErrUnauthenticated))
	})

	It("rejects an expired token", func() {
		token, _ := jwt.NewTokenIssuer(secret, issuer, -time.Minute).Issue("user@ucsb.edu", "ROLE_USER")

		_, err := verifier.Verify(token)

		Expect(err).To(MatchError(domain.ErrUnauthenticated))
	})

	It("rejects a token from another issuer", func() {
		token, _ := jwt.NewTokenIssuer(secret, "someone-else", time.Minute).Issue("user@ucsb.edu", "ROLE_USER")

		_, err := verifier.Verify(token)

		Expect(err).To(MatchError(domain.ErrUnauthenticated))
	})

	It("rejects tokens using the none algorithm", func() {
		claims := jwt.Claims{
			Roles: []string{"ROLE_ADMIN"},
			RegisteredClaims: jwtlib.RegisteredClaims{
				Subject:   "intruder",
				Issuer:    issuer,
				ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.Verify(token)

		Expect(err).To(MatchError(domain.ErrUnauthenticated))
	})

	It("rejects garbage", func() {
		_, err := verifier.Verify("not-a-jwt")

		Expect(err).To(MatchError(domain.ErrUnauthenticated))
	})
})
