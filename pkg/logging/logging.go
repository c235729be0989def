package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger writes tagged, human-oriented output for the CLI layer.
// The dataset store itself never logs; operations surface errors to the
// caller and the caller decides what to say about them.
type Logger struct {
	out     io.Writer
	err     io.Writer
	quiet   bool
	verbose bool
}

type loggerKey struct{}

func DefaultLogger() Logger {
	return Logger{
		out: os.Stdout,
		err: os.Stderr,
	}
}

func NewLogger(out, err io.Writer, quiet, verbose bool) Logger {
	return Logger{
		out:     out,
		err:     err,
		quiet:   quiet,
		verbose: verbose,
	}
}

// Ctx returns the logger attached to the context, or the default logger
// when none is attached.
func Ctx(ctx context.Context) Logger {
	l, ok := ctx.Value(loggerKey{}).(Logger)
	if !ok {
		return DefaultLogger()
	}
	return l
}

// WithContext returns a context carrying this logger.
func (l Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func (l *Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

func (l *Logger) OutRaw(s string) {
	fmt.Fprintf(l.out, "%s", s)
}

func (l *Logger) Info(tag string, f string, args ...interface{}) {
	if l.quiet {
		return
	}
	print(l.err, color.New(color.FgHiGreen), tag, f, args...)
}

func (l *Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose && !l.quiet {
		print(l.err, color.New(color.FgGreen), tag, f, args...)
	}
}

func print(w io.Writer, tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s  %s\n",
			tagColor.Sprint(tag),
			color.WhiteString(line))
	}
}
