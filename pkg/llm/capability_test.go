package llm_test

import (
	"context"
	"errors"
	"fmt"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
	"github.com/papercomputeco/vertexprobe/pkg/llm/llmtest"
)

var _ = Describe("Call", func() {
	var (
		ctx context.Context
		req llm.GenerationRequest
	)

	BeforeEach(func() {
		ctx = context.Background()
		req = llm.GenerationRequest{
			Project: "lumaveda-ai",
			Region:  "asia-south1",
			Model:   "gemini-1.5-flash",
			Prompt:  "Write a short motivational quote for students facing stress.",
		}
	})

	It("configures then generates with the exact request values", func() {
		fake := &llmtest.Capability{Text: "Keep going."}

		result := llm.Call(ctx, fake, req)
		Expect(result.OK()).To(BeTrue())
		Expect(result.Text).To(Equal("Keep going."))

		count, project, region := fake.Configured()
		Expect(count).To(Equal(1))
		Expect(project).To(Equal("lumaveda-ai"))
		Expect(region).To(Equal("asia-south1"))

		calls := fake.Calls()
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Model).To(Equal("gemini-1.5-flash"))
		Expect(calls[0].Prompt).To(Equal(req.Prompt))
	})

	It("does not trim the prompt", func() {
		fake := &llmtest.Capability{Text: "ok"}
		req.Prompt = "  padded\tprompt \n"

		llm.Call(ctx, fake, req)
		Expect(fake.Calls()[0].Prompt).To(Equal("  padded\tprompt \n"))
	})

	It("fails with a configuration reason before any call when the request is incomplete", func() {
		fake := &llmtest.Capability{Text: "unused"}
		req.Project = ""
		req.Prompt = "   "

		result := llm.Call(ctx, fake, req)
		Expect(result.OK()).To(BeFalse())
		Expect(result.Failure.Reason).To(Equal(llm.ReasonConfiguration))
		Expect(result.Failure.Error()).To(ContainSubstring("project is required"))
		Expect(result.Failure.Error()).To(ContainSubstring("prompt must not be empty"))

		count, _, _ := fake.Configured()
		Expect(count).To(BeZero())
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("does not generate when configure fails", func() {
		fake := &llmtest.Capability{ConfigureErr: errors.New("bad region")}

		result := llm.Call(ctx, fake, req)
		Expect(result.Failure).NotTo(BeNil())
		Expect(result.Failure.Reason).To(Equal(llm.ReasonConfiguration))
		Expect(fake.Calls()).To(BeEmpty())
	})

	It("keeps the classification of a wrapped Failure", func() {
		denied := &llm.Failure{Reason: llm.ReasonAuthentication, Message: "permission denied", Code: 403}
		fake := &llmtest.Capability{GenerateErr: fmt.Errorf("generate: %w", denied)}

		result := llm.Call(ctx, fake, req)
		Expect(result.Failure).To(BeIdenticalTo(denied))
	})

	It("reports an empty response as a response failure", func() {
		fake := &llmtest.Capability{Text: " \n"}

		result := llm.Call(ctx, fake, req)
		Expect(result.Failure).NotTo(BeNil())
		Expect(result.Failure.Reason).To(Equal(llm.ReasonResponse))
	})
})

var _ = Describe("Generate", func() {
	It("skips configuration", func() {
		fake := &llmtest.Capability{Text: "hi"}
		temp := 0.9

		result := llm.Generate(context.Background(), fake, llm.GenerationRequest{
			Project: "p", Region: "r", Model: "m", Prompt: "hello",
			Options: &llm.Options{Temperature: &temp},
		})
		Expect(result.Text).To(Equal("hi"))

		count, _, _ := fake.Configured()
		Expect(count).To(BeZero())
		Expect(*fake.Calls()[0].Options.Temperature).To(Equal(0.9))
	})
})

var _ = Describe("Classify", func() {
	It("treats deadlines as network failures", func() {
		f := llm.Classify(fmt.Errorf("call: %w", context.DeadlineExceeded))
		Expect(f.Reason).To(Equal(llm.ReasonNetwork))
	})

	It("treats net errors as network failures", func() {
		var err error = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		Expect(llm.Classify(err).Reason).To(Equal(llm.ReasonNetwork))
	})

	It("falls back to an opaque unknown failure", func() {
		f := llm.Classify(errors.New("something odd"))
		Expect(f.Reason).To(Equal(llm.ReasonUnknown))
		Expect(f.Message).To(Equal("something odd"))
	})
})

var _ = Describe("Failure", func() {
	It("renders a single-line diagnostic", func() {
		f := &llm.Failure{
			Reason:  llm.ReasonAuthentication,
			Code:    403,
			Status:  "PERMISSION_DENIED",
			Message: "Permission denied on resource\nproject lumaveda-ai",
		}
		Expect(f.Diagnostic()).To(Equal(
			"[authentication] 403 PERMISSION_DENIED: Permission denied on resource project lumaveda-ai"))
	})

	It("unwraps to the underlying error", func() {
		base := errors.New("base")
		f := &llm.Failure{Reason: llm.ReasonUnknown, Err: base}
		Expect(errors.Is(f, base)).To(BeTrue())
		Expect(f.Error()).To(Equal("base"))
	})
})
