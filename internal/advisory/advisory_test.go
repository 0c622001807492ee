package advisory_test

import (
	"encoding/base64"

	"github.com/frahmantamala/grievance-management/internal/advisory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	It("picks the first labelled lines", func() {
		a := advisory.Parse("Title: Pothole\nCategory: Public Infrastructure & Utilities\n  Priority: High - Needs immediate investigation\nCategory: Other")
		Expect(*a.Category).To(Equal("Public Infrastructure & Utilities"))
		Expect(*a.Priority).To(Equal("High - Needs immediate investigation"))
		Expect(a.Text).To(HavePrefix("Title: Pothole"))
	})

	It("leaves missing or empty labels unset", func() {
		a := advisory.Parse("Category:\nno priority here")
		Expect(a.Category).To(BeNil())
		Expect(a.Priority).To(BeNil())
	})
})

var _ = Describe("AnalyzeRequest", func() {
	It("counts only attachments that decode", func() {
		payload := base64.StdEncoding.EncodeToString([]byte("image bytes"))
		req := advisory.AnalyzeRequest{Attachments: []advisory.AttachmentPayload{
			{Name: "a.png", Base64: "data:image/png;base64," + payload},
			{Name: "b.txt", Base64: payload},
			{Name: "broken", Base64: "%%%"},
			{Name: "empty"},
		}}
		Expect(req.CountAttachments()).To(Equal(2))
	})
})

var _ = Describe("BuildPrompt", func() {
	It("lists the vocabularies and substitutes N/A for blanks", func() {
		prompt := advisory.BuildPrompt("", "Water leak", 2)
		Expect(prompt).To(ContainSubstring("- Title: N/A"))
		Expect(prompt).To(ContainSubstring("- Description: Water leak"))
		Expect(prompt).To(ContainSubstring("- Attachments: 2 file(s)"))
		for _, c := range advisory.Categories {
			Expect(prompt).To(ContainSubstring(c))
		}
		Expect(prompt).To(ContainSubstring("Critical - Urgent action required"))
	})
})
