package servecmder

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/pkg/config"
	"github.com/papercomputeco/vertexprobe/pkg/llm"
	"github.com/papercomputeco/vertexprobe/pkg/llm/llmtest"
	"github.com/papercomputeco/vertexprobe/pkg/storage/sqlite"
)

var _ = Describe("Serve Command", func() {
	var (
		ctx   context.Context
		cfg   config.Config
		fake  *llmtest.Capability
		cmder *serveCommander
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.Default()
		cfg.Project = "lumaveda-ai"
		fake = &llmtest.Capability{Text: "Breathe. You've prepared for this."}
		cmder = &serveCommander{
			newCapability: func(config.Config, *zap.Logger) llm.Capability { return fake },
		}
	})

	startServer := func() (string, func()) {
		srv, closeStore, err := cmder.build(ctx, cfg, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		go func() {
			_ = srv.RunWithListener(listener)
		}()

		addr := "http://" + listener.Addr().String()
		cleanup := func() {
			srv.Shutdown()
			closeStore()
		}
		return addr, cleanup
	}

	It("configures the capability once and serves chat", func() {
		addr, cleanup := startServer()
		defer cleanup()

		resp, err := http.Post(addr+"/api/chat", "application/json", strings.NewReader(`{"prompt":"exam nerves"}`))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body map[string]string
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body["reply"]).To(Equal("Breathe. You've prepared for this."))

		count, project, region := fake.Configured()
		Expect(count).To(Equal(1))
		Expect(project).To(Equal("lumaveda-ai"))
		Expect(region).To(Equal("asia-south1"))
	})

	It("answers ping", func() {
		addr, cleanup := startServer()
		defer cleanup()

		resp, err := http.Get(addr + "/api/ping")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("stores moods in the SQLite database", func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "moods.db")
		cmder.sqlitePath = dbPath

		addr, cleanup := startServer()
		resp, err := http.Post(addr+"/api/mood", "application/json", strings.NewReader(`{"mood":"hopeful","score":4}`))
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		cleanup()

		driver, err := sqlite.NewDriver(ctx, dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()

		entries, err := driver.List(ctx, "mood_logs")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Mood).To(Equal("hopeful"))
	})

	It("refuses to start without a project", func() {
		cfg.Project = ""
		_, _, err := cmder.build(ctx, cfg, zap.NewNop())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("project is required"))
	})

	It("refuses to start when the capability cannot be configured", func() {
		fake.ConfigureErr = errors.New("could not load credentials")
		_, _, err := cmder.build(ctx, cfg, zap.NewNop())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("could not configure generation client"))
	})
})
