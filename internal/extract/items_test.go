package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Items", func() {
	var (
		rawText string
		items   []Item
	)

	JustBeforeEach(func() {
		items = Items(rawText)
	})

	When("the receipt has plain name-price rows", func() {
		BeforeEach(func() {
			rawText = "Cappuccino 45.000\nCroissant 28.000\nTOTAL Rp 73.000"
		})

		It("recovers them in receipt order", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0]).To(Equal(Item{Name: "Cappuccino", Price: 45000}))
			Expect(items[1]).To(Equal(Item{Name: "Croissant", Price: 28000}))
		})

		It("skips the total line", func() {
			for _, it := range items {
				Expect(it.Name).NotTo(ContainSubstring("TOTAL"))
			}
		})
	})

	When("rows carry quantity prefixes", func() {
		BeforeEach(func() {
			rawText = "2x Kopi Susu 30.000\n3 x Roti Bakar 45.000"
		})

		It("splits quantity from the name", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0]).To(Equal(Item{Name: "Kopi Susu", Price: 30000, Quantity: 2}))
			Expect(items[1]).To(Equal(Item{Name: "Roti Bakar", Price: 45000, Quantity: 3}))
		})
	})

	When("tax and discount rows appear", func() {
		BeforeEach(func() {
			rawText = "Nasi Goreng 35.000\nPajak 10% 3.500\nService charge 2.000\nDiskon member 5.000"
		})

		It("keeps only purchasable items", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Nasi Goreng"))
		})
	})

	When("rows are short, unpriced or address-like", func() {
		BeforeEach(func() {
			rawText = "Es 5\nJl. Sudirman No. 1\n05/03/2024\nTerima kasih banyak\nEs Jeruk 12.000"
		})

		It("drops them without aborting the scan", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0]).To(Equal(Item{Name: "Es Jeruk", Price: 12000}))
		})
	})

	When("a price row uses a Western decimal", func() {
		BeforeEach(func() {
			rawText = "Latte grande 11.97"
		})

		It("reads the single-dot two-digit tail as a decimal", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Price).To(Equal(11.97))
		})
	})

	When("there are no item rows", func() {
		BeforeEach(func() {
			rawText = "TOTAL Rp 45.000"
		})

		It("returns an empty, non-nil list", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})
})
