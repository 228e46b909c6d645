package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	e "github.com/kali-lang/kali/errors"
	"github.com/kali-lang/kali/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:   "kali [FILE]",
		Args:  cobra.MaximumNArgs(1),
		Short: "kali: A bytecode chunk assembler and disassembler.",
	}
	app.Flags().SortFlags = true

	defaultVerbosityStr := "INFO"
	verbosity := app.Flags().StringP("verbosity", "v", defaultVerbosityStr, "logging verbosity")
	name := app.Flags().StringP("name", "n", "", "chunk name in the listing header (default: the file name)")

	app.Run = func(cmd *cobra.Command, args []string) {
		verbosityLvl, err := logrus.ParseLevel(*verbosity)
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosityStr)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "%lvl% %msg%\n"})

		if err := appMain(cmd.OutOrStdout(), *name, args); err != nil {
			logrus.Fatal(err)
			os.Exit(1)
		}
	}
	return
}

func appMain(out io.Writer, name string, args []string) error {
	asm := vm.NewAssembler()

	switch len(args) {
	case 0:
		return asm.REPL(out)
	case 1:
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		chunk, err := asm.Assemble(string(src))
		if err != nil {
			return err
		}
		defer chunk.Free()

		if name == "" {
			name = filepath.Base(args[0])
		}
		_, err = fmt.Fprint(out, chunk.Disassemble(name))
		return err
	default:
		panic(e.Unreachable)
	}
}
