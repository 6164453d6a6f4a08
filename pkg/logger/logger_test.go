package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jobradar/endpoint-resolver/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("New", func() {
		It("should create logger with info level", func() {
			log := logger.New(buf, "info", false, "dev")
			Expect(log).NotTo(BeNil())
		})

		It("should default to info for invalid level", func() {
			log := logger.New(buf, "invalid", false, "dev")
			Expect(log.Enabled(nil, slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(nil, slog.LevelDebug)).To(BeFalse())
		})

		It("should respect debug level", func() {
			log := logger.New(buf, "debug", false, "dev")

			Expect(log.Enabled(nil, slog.LevelDebug)).To(BeTrue())
			Expect(log.Enabled(nil, slog.LevelInfo)).To(BeTrue())
		})

		It("should respect warn level", func() {
			log := logger.New(buf, "warn", false, "dev")

			Expect(log.Enabled(nil, slog.LevelInfo)).To(BeFalse())
			Expect(log.Enabled(nil, slog.LevelWarn)).To(BeTrue())
		})

		It("should respect error level", func() {
			log := logger.New(buf, "error", false, "dev")

			Expect(log.Enabled(nil, slog.LevelWarn)).To(BeFalse())
			Expect(log.Enabled(nil, slog.LevelError)).To(BeTrue())
		})

		It("should write text output outside prod", func() {
			log := logger.New(buf, "info", false, "dev")
			log.Info("endpoint resolved")

			Expect(buf.String()).To(ContainSubstring("msg=\"endpoint resolved\""))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
		})

		It("should write JSON output in prod", func() {
			log := logger.New(buf, "info", false, "prod")
			log.Info("endpoint resolved")

			var record map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("endpoint resolved"))
			Expect(record["environment"]).To(Equal("prod"))
		})

		It("should support addSource option", func() {
			log := logger.New(buf, "info", true, "dev")
			log.Info("with source")

			Expect(buf.String()).To(ContainSubstring("source="))
		})
	})
})
