package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Date", func() {
	DescribeTable("pattern families",
		func(rawText, want string) {
			date := Date(rawText)
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(want))
		},
		Entry("numeric slash, day first", "Tanggal: 05/03/2024", "2024-03-05"),
		Entry("numeric dash, day first", "21-11-2024 14:32", "2024-11-21"),
		Entry("ISO order", "2024/03/05 cashier 2", "2024-03-05"),
		Entry("English full month", "5 March 2024", "2024-03-05"),
		Entry("English abbreviated month", "Receipt date 5 Mar 2024", "2024-03-05"),
		Entry("English month, mixed case", "5 MARCH 2024", "2024-03-05"),
		Entry("Indonesian month", "5 Maret 2024", "2024-03-05"),
		Entry("Indonesian month late in text", "Toko Abadi\nJakarta\n17 Agustus 2024", "2024-08-17"),
		Entry("zero padding", "1/2/2024", "2024-02-01"),
	)

	When("the day-first reading is invalid but another match exists", func() {
		It("skips the impossible date", func() {
			// 31/02 is no calendar date in any reading the first family knows.
			date := Date("31/02/2024 backup 10/10/2024")
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal("2024-10-10"))
		})
	})

	When("numeric and month-name dates both appear", func() {
		It("prefers the numeric family", func() {
			date := Date("printed 5 Maret 2024\npaid 06/03/2024")
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal("2024-03-06"))
		})
	})

	When("no date is present", func() {
		It("returns nil", func() {
			Expect(Date("TOTAL Rp 45.000\nTerima kasih")).To(BeNil())
		})
	})
})
