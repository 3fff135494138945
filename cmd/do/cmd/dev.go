package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var shared bool

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the API with hot reload and an in-process worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(shared)
		},
	}
	cmd.Flags().BoolVar(&shared, "shared", false, "use Redis for sessions and jobs instead of in-memory backends")

	return cmd
}

func runDev(shared bool) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}

	env := os.Environ()
	env = append(env, "APP_ENV=development", "WORKER_IN_PROCESS=true")
	if !shared {
		env = append(env, "SESSION_DRIVER=memory", "QUEUE_DRIVER=memory")
	}

	return syscall.Exec(airPath, airArgs, env)
}
