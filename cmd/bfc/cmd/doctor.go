package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/bfc/internal/driver"
)

func newDoctorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the assembler and C compiler are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			tc := driver.Toolchain{Assembler: cfg.Toolchain.Assembler, CC: cfg.Toolchain.CC}
			return runDoctor(cmd, tc)
		},
	}
}

// runDoctor reports the state of every tool the driver may invoke.
func runDoctor(cmd *cobra.Command, tc driver.Toolchain) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render("bfc Toolchain Doctor"))
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)

	if runtime.GOARCH != "amd64" {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf(
			"note: generated assembly targets x86-64; this host is %s, use -t c", runtime.GOARCH)))
		fmt.Fprintln(w)
	}

	allOk := true
	for _, st := range tc.Check(cmd.Context()) {
		version := st.Version
		if version == "" && st.OK() {
			version = st.Path
		}
		fmt.Fprintf(w, "%s%s", labelStyle.Render(st.Name+":"), version)
		switch {
		case st.OK():
			fmt.Fprintln(w, successStyle.Render(" ✓"))
		case st.Required:
			fmt.Fprintln(w, errorStyle.Render(" ✗ (not found)"))
			allOk = false
		default:
			fmt.Fprintln(w, dimStyle.Render(" (optional, not found)"))
		}
	}

	fmt.Fprintln(w)
	if allOk {
		fmt.Fprintln(w, "All required tools available!")
		return nil
	}
	return errors.New("some required tools are missing")
}
