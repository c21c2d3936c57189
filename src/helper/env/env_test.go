package env_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/helper/env"
)

var _ = Describe("env", func() {
	const name = "CAMPUSRECORDS_ENV_TEST"

	AfterEach(func() {
		os.Unsetenv(name)
	})

	It("falls back to the default when the variable is empty", func() {
		Expect(env.GetString(name, "fallback")).To(Equal("fallback"))
		Expect(env.GetInt(name, 42)).To(Equal(42))
		Expect(env.GetBool(name, true)).To(BeTrue())
		Expect(env.GetSeconds(name, 3)).To(Equal(3 * time.Second))
	})

	It("reads typed values", func() {
		os.Setenv(name, "15")

		Expect(env.GetString(name, "fallback")).To(Equal("15"))
		Expect(env.GetInt(name, 42)).To(Equal(15))
		Expect(env.GetSeconds(name, 3)).To(Equal(15 * time.Second))
	})

	It("uses the default when an int cannot be parsed", func() {
		os.Setenv(name, "not-a-number")

		Expect(env.GetInt(name, 7)).To(Equal(7))
	})

	It("splits comma separated values", func() {
		os.Setenv(name, " a, b ,,c ")

		Expect(env.GetStringSlice(name)).To(Equal([]string{"a", "b", "c"}))
	})

	It("panics when a required variable is missing", func() {
		Expect(func() { env.MustGetString(name) }).To(PanicWith(name + " can't be empty"))
	})
})
