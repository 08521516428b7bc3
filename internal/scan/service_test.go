package scan

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danutirta/resi-scan/internal/enhance"
	"github.com/danutirta/resi-scan/internal/extract"
	"github.com/danutirta/resi-scan/internal/ocr"
)

const rawReceipt = "STARBUCKS COFFEE\nJl. Sudirman No. 1\n05/03/2024\nCappuccino 45.000\nTOTAL Rp 45.000"

var _ = Describe("Service", func() {
	var (
		db       *mockDB
		storage  *mockStorage
		engine   *mockEngine
		enhancer *mockEnhancer
		service  *Service
		now      time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		engine = &mockEngine{text: rawReceipt, confidence: 87}
		enhancer = nil
		now = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	})

	JustBeforeEach(func() {
		var e enhance.Enhancer
		if enhancer != nil {
			e = enhancer
		}
		service = NewServiceWithDeps(db, engine, storage, e, ocr.PreprocessOptions{},
			&fixedIDGenerator{prefix: "scan-"}, &fixedClock{now: now})
	})

	Describe("Scan", func() {
		var (
			record *Record
			err    error
		)

		JustBeforeEach(func() {
			record, err = service.Scan(context.Background(), "IMG_20240305_093242.jpg", []byte("fake image"), "image/jpeg")
		})

		When("recognition succeeds", func() {
			It("does not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("extracts the receipt fields", func() {
				Expect(record.Result.Merchant).To(HaveValue(Equal("STARBUCKS COFFEE")))
				Expect(record.Result.Date).To(HaveValue(Equal("2024-03-05")))
				Expect(record.Result.Amount).To(HaveValue(Equal(45000.0)))
				Expect(record.Result.Currency).To(HaveValue(Equal("IDR")))
				Expect(record.Result.Type).To(Equal(extract.TypeExpense))
			})

			It("stamps the record with ID and time", func() {
				Expect(record.ID).To(Equal("scan-1"))
				Expect(record.CreatedAt).To(Equal(now))
			})

			It("saves the original file and the record", func() {
				Expect(storage.files).To(HaveKey(record.Filename))
				Expect(db.records).To(HaveKey(record.ID))
			})

			It("sanitizes the stored filename", func() {
				Expect(record.Filename).To(Equal("scan-1_IMG_20240305_093242.jpg"))
			})
		})

		When("the recognizer fails", func() {
			BeforeEach(func() {
				engine.err = ocr.ErrRecognitionFailed
			})

			It("returns the terminal error", func() {
				Expect(err).To(MatchError(ocr.ErrRecognitionFailed))
				Expect(record).To(BeNil())
			})

			It("cleans up the saved file", func() {
				Expect(storage.deleted).To(HaveLen(1))
			})
		})

		When("the recognizer returns unreadable text", func() {
			BeforeEach(func() {
				engine.text = "###\n@@"
				engine.confidence = 12
			})

			It("still succeeds with a mostly-null result", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Result.Merchant).To(BeNil())
				Expect(record.Result.Amount).To(BeNil())
				Expect(record.Result.Type).To(Equal(extract.TypeExpense))
			})
		})

		When("an enhancer is configured", func() {
			BeforeEach(func() {
				enhancer = &mockEnhancer{override: &enhance.Override{
					Merchant:   "Starbucks Sudirman",
					Confidence: 0.97,
				}}
			})

			It("applies the override on top of the heuristic result", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Enhanced).To(BeTrue())
				Expect(record.Result.Merchant).To(HaveValue(Equal("Starbucks Sudirman")))
				// Fields the override is silent on keep their heuristic values.
				Expect(record.Result.Amount).To(HaveValue(Equal(45000.0)))
			})
		})

		When("the enhancer fails", func() {
			BeforeEach(func() {
				enhancer = &mockEnhancer{err: errors.New("model unavailable")}
			})

			It("falls back to the heuristic result", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Enhanced).To(BeFalse())
				Expect(record.Result.Merchant).To(HaveValue(Equal("STARBUCKS COFFEE")))
			})
		})

		When("saving the record fails", func() {
			BeforeEach(func() {
				db.saveErr = errors.New("disk full")
			})

			It("returns the error and removes the stored file", func() {
				Expect(err).To(HaveOccurred())
				Expect(storage.deleted).To(HaveLen(1))
			})
		})
	})

	Describe("ScanBatch", func() {
		var (
			inputs   []BatchInput
			progress []int
			results  []BatchResult
			ctx      context.Context
			cancel   context.CancelFunc
		)

		BeforeEach(func() {
			inputs = []BatchInput{
				{Filename: "a.jpg", Data: []byte("a"), ContentType: "image/jpeg"},
				{Filename: "b.jpg", Data: []byte("b"), ContentType: "image/jpeg"},
				{Filename: "c.jpg", Data: []byte("c"), ContentType: "image/jpeg"},
			}
			progress = nil
			ctx, cancel = context.WithCancel(context.Background())
			DeferCleanup(cancel)
		})

		JustBeforeEach(func() {
			results = service.ScanBatch(ctx, inputs, func(done, total int) {
				progress = append(progress, done)
			})
		})

		It("processes every image strictly sequentially", func() {
			Expect(results).To(HaveLen(3))
			Expect(engine.calls).To(Equal(3))
		})

		It("reports cumulative progress", func() {
			Expect(progress).To(Equal([]int{1, 2, 3}))
		})

		When("one image fails to recognize", func() {
			BeforeEach(func() {
				// All share the engine; simulate flaky input by failing all,
				// the point is that the batch keeps going.
				engine.err = ocr.ErrRecognitionFailed
			})

			It("records the error and continues", func() {
				Expect(results).To(HaveLen(3))
				for _, r := range results {
					Expect(r.Err).To(MatchError(ocr.ErrRecognitionFailed))
				}
			})
		})

		When("the context is cancelled up front", func() {
			BeforeEach(func() {
				cancel()
			})

			It("stops between iterations without recognizing", func() {
				Expect(engine.calls).To(BeZero())
				for _, r := range results {
					Expect(r.Err).To(MatchError(context.Canceled))
				}
			})
		})
	})

	Describe("DeleteRecord", func() {
		JustBeforeEach(func() {
			_, err := service.Scan(context.Background(), "receipt.jpg", []byte("img"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
		})

		It("removes the record and its file", func() {
			Expect(service.DeleteRecord("scan-1")).To(Succeed())
			Expect(db.records).To(BeEmpty())
			Expect(storage.files).To(BeEmpty())
		})

		It("errors for unknown IDs", func() {
			Expect(service.DeleteRecord("nope")).To(HaveOccurred())
		})
	})

	Describe("GetRecordFile", func() {
		JustBeforeEach(func() {
			_, err := service.Scan(context.Background(), "receipt.jpg", []byte("img"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the original bytes and content type", func() {
			data, contentType, err := service.GetRecordFile("scan-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("img")))
			Expect(contentType).To(Equal("image/jpeg"))
		})
	})
})

var _ = Describe("sanitizeFilename", func() {
	DescribeTable("cleanup",
		func(in, want string) {
			Expect(sanitizeFilename(in)).To(Equal(want))
		},
		Entry("plain name", "receipt.jpg", "receipt.jpg"),
		Entry("special characters", "wa!@#rung (1).png", "warung 1.png"),
		Entry("space runs", "foto   struk.jpg", "foto struk.jpg"),
		Entry("empty after cleanup", "!!!.pdf", "receipt.pdf"),
	)
})
