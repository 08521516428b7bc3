package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeInput", func() {
	When("the input is already a PNG", func() {
		It("returns it as-is", func() {
			data := solidPNG(color.White, 4, 4)
			out, err := NormalizeInput(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
		})
	})

	When("the input is a base64 data URI", func() {
		It("unwraps and decodes it", func() {
			data := solidPNG(color.White, 4, 4)
			uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
			out, err := NormalizeInput([]byte(uri), "")
			Expect(err).NotTo(HaveOccurred())
			img, _, derr := image.Decode(bytes.NewReader(out))
			Expect(derr).NotTo(HaveOccurred())
			Expect(img.Bounds().Dx()).To(Equal(4))
		})
	})

	When("the content type is missing", func() {
		It("still decodes standard formats by sniffing", func() {
			jpeg := Preprocess(solidPNG(color.White, 4, 4), PreprocessOptions{})
			out, err := NormalizeInput(jpeg, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeEmpty())
		})
	})

	When("the bytes are not an image", func() {
		It("returns an error", func() {
			_, err := NormalizeInput([]byte("not an image"), "image/jpeg")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isHEICData", func() {
	It("recognizes the ftyp box brands", func() {
		heic := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		Expect(isHEICData(append(heic, make([]byte, 8)...))).To(BeTrue())
		Expect(isHEICData(solidPNG(color.White, 2, 2))).To(BeFalse())
		Expect(isHEICData([]byte("tiny"))).To(BeFalse())
	})
})

var _ = Describe("Tesseract", func() {
	It("refuses to recognize after Close", func() {
		engine := NewTesseract()
		Expect(engine.Close()).To(Succeed())
		_, err := engine.Recognize(context.Background(), []byte("x"))
		Expect(err).To(MatchError(ErrRecognitionFailed))
	})

	It("honors an already-cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		engine := NewTesseract()
		defer engine.Close()
		_, err := engine.Recognize(ctx, []byte("x"))
		Expect(err).To(MatchError(context.Canceled))
	})

	It("is safe to close twice", func() {
		engine := NewTesseract()
		Expect(engine.Close()).To(Succeed())
		Expect(engine.Close()).To(Succeed())
	})
})
