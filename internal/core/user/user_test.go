package user_test

import (
	"testing"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core User Suite")
}

var _ = Describe("Names", func() {
	It("joins first and last name", func() {
		Expect(user.JoinName(user.NameParts{FirstName: "Ann", LastName: "Lee"})).To(Equal("Ann Lee"))
	})

	It("appends the second name when present", func() {
		second := "Marie"
		Expect(user.JoinName(user.NameParts{FirstName: "Ann", LastName: "Lee", SecondName: &second})).To(Equal("Ann Lee Marie"))
	})

	It("ignores a blank second name", func() {
		blank := "  "
		Expect(user.JoinName(user.NameParts{FirstName: "Ann", LastName: "Lee", SecondName: &blank})).To(Equal("Ann Lee"))
	})

	It("splits on whitespace", func() {
		parts := user.SplitName("Ann  Lee Marie")
		Expect(parts.FirstName).To(Equal("Ann"))
		Expect(parts.LastName).To(Equal("Lee"))
		Expect(parts.SecondName).NotTo(BeNil())
		Expect(*parts.SecondName).To(Equal("Marie"))
	})

	It("prefers stored parts over splitting", func() {
		u := &datamodel.UserProfile{FullName: "Van Der Berg", FirstName: "Van Der", LastName: "Berg"}
		parts := user.PartsOf(u)
		Expect(parts.FirstName).To(Equal("Van Der"))
		Expect(parts.LastName).To(Equal("Berg"))
		Expect(parts.SecondName).To(BeNil())
	})

	It("drops credentials from the public view", func() {
		pub := user.FromDataModel(&datamodel.UserProfile{ID: "u1", Username: "a@b.c", Email: "a@b.c", FullName: "A B", PasswordHash: "secret"})
		Expect(pub.ID).To(Equal("u1"))
		Expect(pub.FullName).To(Equal("A B"))
		Expect(user.FromDataModel(nil)).To(BeNil())
	})
})
