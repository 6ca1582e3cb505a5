package replaycmder

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askstream/pkg/config"
)

var _ = Describe("NewReplayCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewReplayCmd()
		Expect(cmd.Use).To(Equal("replay"))
	})

	It("registers the replay flags with config defaults", func() {
		cmd := NewReplayCmd()
		defaults := config.NewDefaultConfig()

		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(defaults.Replay.Listen))
		Expect(cmd.Flags().Lookup("listen").Shorthand).To(Equal("l"))
		Expect(cmd.Flags().Lookup("fragment-size")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("delay")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("answer")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("retry")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("keep-alive")).NotTo(BeNil())
	})

	It("resolves passed flags over config defaults", func() {
		cmder := &replayCommander{}
		cmd := newReplayCmd(cmder)
		cmd.Flags().String("config-dir", GinkgoT().TempDir(), "")
		Expect(cmd.ParseFlags([]string{"--fragment-size", "2", "--delay", "5ms"})).To(Succeed())
		Expect(cmd.PreRunE(cmd, nil)).To(Succeed())

		defaults := config.NewDefaultConfig()
		Expect(cmder.resolved.Replay.FragmentSize).To(Equal(2))
		Expect(cmder.resolved.Replay.Delay).To(Equal(5 * time.Millisecond))
		Expect(cmder.resolved.Replay.Listen).To(Equal(defaults.Replay.Listen))
	})
})

var _ = Describe("serverConfig", func() {
	It("maps resolved settings and flags onto the server config", func() {
		c := &replayCommander{
			resolved: &config.Config{Replay: config.ReplayConfig{
				Listen:       ":9999",
				FragmentSize: 3,
				Delay:        time.Millisecond,
			}},
			answer:    "hi",
			model:     "m",
			retry:     100,
			keepAlive: true,
		}

		cfg := c.serverConfig()
		Expect(cfg.Listen).To(Equal(":9999"))
		Expect(cfg.FragmentSize).To(Equal(3))
		Expect(cfg.Delay).To(Equal(time.Millisecond))
		Expect(cfg.Answer).To(Equal("hi"))
		Expect(cfg.Model).To(Equal("m"))
		Expect(cfg.Retry).To(Equal(100))
		Expect(cfg.KeepAlive).To(BeTrue())
	})
})
