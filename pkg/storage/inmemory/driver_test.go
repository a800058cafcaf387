package inmemory_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vertexprobe/pkg/mood"
	"github.com/papercomputeco/vertexprobe/pkg/storage/inmemory"
)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
		now = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	})

	It("stores and retrieves a copy of an entry", func() {
		entry := mood.NewEntry("mood_logs", "u1", "calm", 4, "", now)
		Expect(driver.Put(ctx, entry)).To(Succeed())

		entry.Mood = "mutated"

		got, err := driver.Get(ctx, entry.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Mood).To(Equal("calm"))
	})

	It("returns ErrNotFound for an unknown id", func() {
		_, err := driver.Get(ctx, "missing")
		Expect(err).To(MatchError(mood.ErrNotFound{ID: "missing"}))
	})

	It("rejects duplicates and nil entries", func() {
		entry := mood.NewEntry("mood_logs", "u1", "calm", 4, "", now)
		Expect(driver.Put(ctx, entry)).To(Succeed())
		Expect(driver.Put(ctx, entry)).NotTo(Succeed())
		Expect(driver.Put(ctx, nil)).NotTo(Succeed())
	})

	It("lists a collection oldest first", func() {
		b := mood.NewEntry("mood_logs", "u1", "second", 0, "", now.Add(time.Minute))
		a := mood.NewEntry("mood_logs", "u1", "first", 0, "", now)
		c := mood.NewEntry("elsewhere", "u1", "other", 0, "", now)
		for _, e := range []*mood.Entry{b, a, c} {
			Expect(driver.Put(ctx, e)).To(Succeed())
		}

		entries, err := driver.List(ctx, "mood_logs")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Mood).To(Equal("first"))
		Expect(entries[1].Mood).To(Equal("second"))
	})
})
