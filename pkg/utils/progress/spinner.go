package progress

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Indicator shows activity while a blocking transfer runs
type Indicator interface {
	Start(msg string)
	Stop()
}

// New returns a spinner writing to w when w is a terminal, otherwise a no-op
func New(w io.Writer) Indicator {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return Nop{}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = w
	return &terminal{s: s}
}

type terminal struct {
	s *spinner.Spinner
}

func (x *terminal) Start(msg string) {
	x.s.Suffix = " " + msg
	x.s.Start()
}

func (x *terminal) Stop() {
	x.s.Stop()
}

// Nop is an Indicator that does nothing
type Nop struct{}

func (Nop) Start(string) {}
func (Nop) Stop()        {}
