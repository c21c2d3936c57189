package authorization_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/services/authorization"
)

var _ = Describe("Require", func() {
	DescribeTable("capability decisions",
		func(principal domain.Principal, capability domain.Capability, allowed bool) {
			err := authorization.Require(principal, capability)

			if allowed {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(domain.ErrForbidden))
			}
		},
		Entry("anonymous cannot read", domain.Anonymous(), domain.CapabilityRead, false),
		Entry("anonymous cannot administer", domain.Anonymous(), domain.CapabilityAdmin, false),
		Entry("user can read", domain.Principal{Subject: "u1", Roles: []string{"ROLE_USER"}}, domain.CapabilityRead, true),
		Entry("user cannot administer", domain.Principal{Subject: "u1", Roles: []string{"ROLE_USER"}}, domain.CapabilityAdmin, false),
		Entry("admin can read", domain.Principal{Subject: "a1", Roles: []string{"ROLE_ADMIN"}}, domain.CapabilityRead, true),
		Entry("admin can administer", domain.Principal{Subject: "a1", Roles: []string{"ROLE_ADMIN"}}, domain.CapabilityAdmin, true),
		Entry("role names without prefix are accepted", domain.Principal{Subject: "a1", Roles: []string{"admin"}}, domain.CapabilityAdmin, true),
		Entry("authenticated principal without roles can read", domain.Principal{Subject: "u2"}, domain.CapabilityRead, true),
		Entry("unknown roles grant nothing extra", domain.Principal{Subject: "u3", Roles: []string{"ROLE_GUEST"}}, domain.CapabilityAdmin, false),
	)

	It("names the subject and capability in the error", func() {
		err := authorization.Require(domain.Anonymous(), domain.CapabilityAdmin)

		Expect(err.Error()).To(ContainSubstring("anonymous"))
		Expect(err.Error()).To(ContainSubstring(`"admin"`))
	})
})
