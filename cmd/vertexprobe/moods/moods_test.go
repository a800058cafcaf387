package moodscmder

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vertexprobe/cmd/vertexprobe/cmdconfig"
	"github.com/papercomputeco/vertexprobe/pkg/mood"
	"github.com/papercomputeco/vertexprobe/pkg/storage/sqlite"
)

var _ = Describe("Moods Command", func() {
	var (
		ctx    context.Context
		dbPath string
		out    *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := newMoodsCmd(&moodsCommander{
			flags: cmdconfig.Flags{LookupEnv: func(string) (string, bool) { return "", false }},
		})
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(append([]string{"--env-file", ""}, args...))
		return cmd.ExecuteContext(ctx)
	}

	BeforeEach(func() {
		ctx = context.Background()
		dbPath = filepath.Join(GinkgoT().TempDir(), "moods.db")
		out = &bytes.Buffer{}
	})

	seed := func(entries ...*mood.Entry) {
		driver, err := sqlite.NewDriver(ctx, dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()
		for _, e := range entries {
			Expect(driver.Put(ctx, e)).To(Succeed())
		}
	}

	It("lists entries oldest first", func() {
		now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
		seed(
			mood.NewEntry("mood_logs", "u1", "hopeful", 4, "after the exam", now.Add(time.Hour)),
			mood.NewEntry("mood_logs", "u1", "anxious", 2, "", now),
			mood.NewEntry("journal", "u1", "other", 0, "", now),
		)

		Expect(execute("--sqlite", dbPath)).To(Succeed())

		output := out.String()
		Expect(output).To(ContainSubstring("anxious"))
		Expect(output).To(ContainSubstring("hopeful"))
		Expect(output).To(ContainSubstring("after the exam"))
		Expect(output).NotTo(ContainSubstring("other"))
		Expect(bytes.Index(out.Bytes(), []byte("anxious"))).To(BeNumerically("<", bytes.Index(out.Bytes(), []byte("hopeful"))))
		Expect(output).To(ContainSubstring("2 entries in mood_logs"))
	})

	It("lists another collection", func() {
		seed(mood.NewEntry("journal", "u1", "curious", 3, "", time.Now()))

		Expect(execute("--sqlite", dbPath, "--collection", "journal")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("curious"))
	})

	It("says so when there is nothing to list", func() {
		Expect(execute("--sqlite", dbPath)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No mood entries in mood_logs."))
	})

	It("requires a database", func() {
		Expect(execute()).NotTo(Succeed())
	})
})
