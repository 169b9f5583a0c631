package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

// noIRQTag compiles the data-ready interrupt path out of the binary.
const noIRQTag = "noirq"

// withBuildTags exposes tags to every go invocation made by devtool.
func withBuildTags(tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	flags := strings.TrimSpace(os.Getenv("GOFLAGS") + " -tags=" + strings.Join(tags, ","))
	slog.Debug("using build tags", "GOFLAGS", flags)
	return os.Setenv("GOFLAGS", flags)
}

func tagsFromFlags(cmd *cobra.Command) ([]string, error) {
	noIRQ, err := cmd.Flags().GetBool("no-irq")
	if err != nil {
		return nil, fmt.Errorf("could not get no-irq flag: %w", err)
	}
	if noIRQ {
		return []string{noIRQTag}, nil
	}
	return nil, nil
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build accgyro application",
		RunE: func(cmd *cobra.Command, args []string) error {
			goos := cmd.Flag("os").Value.String()
			arch := cmd.Flag("arch").Value.String()
			version := cmd.Flag("version").Value.String()
			crossOs := cmd.Flag("cross-os").Value.String()
			crossArch := cmd.Flag("cross-arch").Value.String()
			tags, err := tagsFromFlags(cmd)
			if err != nil {
				return err
			}

			// if this is a native build, use go build
			if goos == runtime.GOOS && arch == runtime.GOARCH {
				if crossOs != "" && crossArch != "" {
					goos = crossOs
					arch = crossArch
				}
				if err := withBuildTags(tags...); err != nil {
					return fmt.Errorf("could not set build tags: %w", err)
				}
				return build.GoBuild("dist/accgyro", "./cmd/accgyro", build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "main",
					EnableCgo:     true, // karalabe/hid needs cgo
					Arch:          arch,
					OS:            goos,
				})
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			dockerArgs := []string{"build", "--version", version, "--cross-os", crossOs, "--cross-arch", crossArch}
			if len(tags) > 0 {
				dockerArgs = append(dockerArgs, "--no-irq")
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", goos, arch), dockerArgs, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   "gophertribe/gobuild:1.25-bookworm",
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().Bool("no-irq", false, "build without data-ready interrupt support (polling only)")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")

	return cmd
}
