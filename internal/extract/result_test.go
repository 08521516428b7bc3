package extract

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Receipt", func() {
	const starbucks = "STARBUCKS COFFEE\nJl. Sudirman No. 1\n05/03/2024\nCappuccino 45.000\nTOTAL Rp 45.000"

	When("assembling a typical Indonesian receipt", func() {
		var res *Result

		BeforeEach(func() {
			res = Receipt(starbucks, 87)
		})

		It("extracts every field", func() {
			Expect(res.Merchant).To(HaveValue(Equal("STARBUCKS COFFEE")))
			Expect(res.Date).To(HaveValue(Equal("2024-03-05")))
			Expect(res.Amount).To(HaveValue(Equal(45000.0)))
			Expect(res.Currency).To(HaveValue(Equal("IDR")))
			Expect(res.Type).To(Equal(TypeExpense))
			Expect(res.Items).To(Equal([]Item{{Name: "Cappuccino", Price: 45000}}))
		})

		It("keeps the raw text unmodified", func() {
			Expect(res.RawText).To(Equal(starbucks))
		})

		It("rescales the recognizer confidence to [0,1]", func() {
			Expect(res.Confidence).To(BeNumerically("~", 0.87, 1e-9))
		})
	})

	When("the recognizer reports out-of-range confidence", func() {
		It("clamps it", func() {
			Expect(Receipt("x", 140).Confidence).To(Equal(1.0))
			Expect(Receipt("x", -5).Confidence).To(Equal(0.0))
		})
	})

	When("the text yields nothing", func() {
		var res *Result

		BeforeEach(func() {
			res = Receipt("", 50)
		})

		It("produces a mostly-null result instead of failing", func() {
			Expect(res.Merchant).To(BeNil())
			Expect(res.Date).To(BeNil())
			Expect(res.Amount).To(BeNil())
			Expect(res.Currency).To(BeNil())
			Expect(res.Items).To(BeEmpty())
			Expect(res.Type).To(Equal(TypeExpense))
		})

		It("serializes missing fields as JSON null", func() {
			data, err := json.Marshal(res)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"merchant":null`))
			Expect(string(data)).To(ContainSubstring(`"amount":null`))
			Expect(string(data)).To(ContainSubstring(`"transaction_type":"expense"`))
		})
	})
})
