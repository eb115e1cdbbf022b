package regfile

import (
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/isasim/pkg/config"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RegfileCmd groups the commands working on an AArch64 register file
var RegfileCmd = &cobra.Command{
	Use:   "regfile",
	Short: "Run programs on an AArch64 register file",
	Long: `Commands to run register file programs, either from a script, interactively or in a terminal UI.

Programs are sequences of line commands:
  RD reg                 read a register
  WR reg value           write an integer literal or X into a register
  SET reg expr           write the result of an expression into a register
  EVAL expr              evaluate an expression
  RESET                  reset the register file
  ADD dst, lhs, rhs      also SUB, MUL, UDIV, SDIV, AND, ORR, EOR, LSL, LSR, ASR
  UMULL dst, lhs, rhs    widening multiplications, also SMULL
  MVN dst, src           also NEG
Comments start with ';', lines starting with '//' are ignored.`,
}

var imageFile string

func init() {
	flags := RegfileCmd.PersistentFlags()
	flags.Int("vl", regfile.DefaultSettings().VectorLength, "scalable vector length in bits")
	flags.String("predicate-strategy", regfile.DefaultSettings().PredicateStrategy.String(), "predicate register initialization (ALL_TRUE, ALL_FALSE, RANDOM, NONE)")
	flags.Int64("seed", 0, "seed of the RANDOM predicate strategy, 0 for a time based seed")
	flags.Bool("reset-zero", false, "registers start as zero instead of X")
	flags.StringVarP(&imageFile, "image", "i", "", "load the register file contents from a YAML image")

	cobra.CheckErr(viper.BindPFlag(config.Key_VectorLength, flags.Lookup("vl")))
	cobra.CheckErr(viper.BindPFlag(config.Key_PredicateStrategy, flags.Lookup("predicate-strategy")))
	cobra.CheckErr(viper.BindPFlag(config.Key_Seed, flags.Lookup("seed")))
	cobra.CheckErr(viper.BindPFlag(config.Key_ResetZero, flags.Lookup("reset-zero")))
}

// Register file and logger shared by all regfile commands
type session struct {
	config config.Config
	rf     *regfile.RegisterFile
	logger *slog.Logger
	closer io.Closer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, logger, closer, err := config.Init(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	rf, err := regfile.New(cfg.RegisterFile)
	if err != nil {
		closer.Close()
		return nil, err
	}

	s := &session{config: cfg, rf: rf, logger: logger, closer: closer}

	if imageFile != "" {
		if err := s.loadImage(imageFile); err != nil {
			closer.Close()
			return nil, err
		}
	}

	logger.Debug("register file ready", "vl", cfg.RegisterFile.VectorLength, "predicates", cfg.RegisterFile.PredicateStrategy, "image", imageFile)
	return s, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}

func (s *session) loadImage(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	image, err := regfile.ReadImage(file)
	if err != nil {
		return err
	}

	return s.rf.LoadImage(image)
}

// Saves the register file contents as a YAML image, "-" means stdout
func (s *session) saveImage(path string, stdout io.Writer) error {
	if path == "-" {
		return s.rf.Image().Save(stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.rf.Image().Save(file)
}
