package grievance_test

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func updateDTO(body string) grievance.UpdateGrievanceDTO {
	var dto grievance.UpdateGrievanceDTO
	Expect(json.Unmarshal([]byte(body), &dto)).To(Succeed())
	return dto
}

var _ = Describe("Grievance DTOs", func() {
	Describe("UpdateGrievanceDTO.Changes", func() {
		It("drops keys outside the allow-list", func() {
			changes, err := updateDTO(`{"status":"In Progress","submitted_by":"x","id":"y","created_at":"z"}`).Changes()
			Expect(err).To(BeNil())
			Expect(changes).To(Equal(map[string]interface{}{"status": "In Progress"}))
		})

		It("returns an empty set when nothing is allowed", func() {
			changes, err := updateDTO(`{"foo":"bar"}`).Changes()
			Expect(err).To(BeNil())
			Expect(changes).To(BeEmpty())
		})

		It("accepts null for nullable columns", func() {
			changes, err := updateDTO(`{"assigned_to":null,"ai_summary":null}`).Changes()
			Expect(err).To(BeNil())
			Expect(changes).To(HaveKeyWithValue("assigned_to", BeNil()))
			Expect(changes).To(HaveKeyWithValue("ai_summary", BeNil()))
		})

		It("treats an empty assignee as unassignment", func() {
			changes, err := updateDTO(`{"assigned_to":"  "}`).Changes()
			Expect(err).To(BeNil())
			Expect(changes).To(HaveKeyWithValue("assigned_to", BeNil()))
		})

		It("rejects null or blank required columns", func() {
			_, err := updateDTO(`{"title":null}`).Changes()
			Expect(err).NotTo(BeNil())
			Expect(err.Type).To(Equal(internal.ErrorTypeValidation))

			_, err = updateDTO(`{"status":"   "}`).Changes()
			Expect(err).NotTo(BeNil())
		})

		It("rejects values longer than their columns", func() {
			_, err := updateDTO(`{"status":"` + strings.Repeat("x", 60) + `"}`).Changes()
			Expect(err).NotTo(BeNil())
			Expect(err.StatusCode).To(Equal(400))
			Expect(err.Error()).To(ContainSubstring("status"))

			changes, err := updateDTO(`{"priority":"` + strings.Repeat("p", 100) + `"}`).Changes()
			Expect(err).To(BeNil())
			Expect(changes).To(HaveKey("priority"))
		})

		It("rejects non-string values", func() {
			_, err := updateDTO(`{"priority":3}`).Changes()
			Expect(err).NotTo(BeNil())
			Expect(err.StatusCode).To(Equal(400))
		})
	})

	Describe("PageFromQuery", func() {
		It("defaults to 50 and 0", func() {
			p := grievance.PageFromQuery(url.Values{})
			Expect(p).To(Equal(grievance.Page{Limit: 50, Offset: 0}))
		})

		It("caps the limit and ignores garbage", func() {
			p := grievance.PageFromQuery(url.Values{"limit": {"500"}, "offset": {"abc"}})
			Expect(p).To(Equal(grievance.Page{Limit: grievance.MaxLimit, Offset: 0}))
		})
	})

	Describe("CreateGrievanceDTO", func() {
		It("requires title, description, category and priority", func() {
			err := grievance.CreateGrievanceDTO{Title: "t"}.Validate()
			Expect(err).NotTo(BeNil())

			details, ok := err.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			fields := []string{}
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ConsistOf("description", "category", "priority"))
		})

		It("accepts priorities up to the column width on create", func() {
			dto := grievance.CreateGrievanceDTO{Title: "t", Description: "d", Category: "Other", Priority: strings.Repeat("p", 100)}
			Expect(dto.Validate()).To(BeNil())

			dto.Priority = strings.Repeat("p", 101)
			Expect(dto.Validate()).NotTo(BeNil())
		})

		It("builds the advisory text", func() {
			dto := grievance.CreateGrievanceDTO{Title: "Pothole", Description: "Deep", Category: "Roads"}
			Expect(dto.AdvisoryText()).To(Equal("Title: Pothole\nDescription: Deep\nCategory: Roads"))
		})
	})
})
