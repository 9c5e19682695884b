package cmd

import "testing"

func TestRootCommandSilencesUsageAndErrors(t *testing.T) {
	if !rootCmd.SilenceUsage {
		t.Error("rootCmd.SilenceUsage should be true")
	}
	if !rootCmd.SilenceErrors {
		t.Error("rootCmd.SilenceErrors should be true")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"run", "kill", "kill-all", "ps", "status", "logs", "upload", "download", "clean", "mkvolumes", "build"}
	for _, use := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == use {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", use)
		}
	}
}
