package form

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bbernstein/precipexport/internal/models"
	"github.com/rs/zerolog/log"
)

// Terminal renders the form on a line-oriented terminal. Prompts and menus go
// to out, dialogs go to errOut.
type Terminal struct {
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

func NewTerminal(in io.Reader, out, errOut io.Writer) *Terminal {
	return &Terminal{
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
	}
}

// ShowError draws a boxed dialog. The call returns once the box is written,
// which is the terminal equivalent of the user dismissing it.
func (t *Terminal) ShowError(title, message string) {
	body := fmt.Sprintf("[%s] %s", title, message)
	border := "+" + strings.Repeat("-", len(body)+2) + "+"
	fmt.Fprintf(t.errOut, "%s\n| %s |\n%s\n", border, body, border)
}

func (t *Terminal) ChooseDirectory(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprintf(t.out, "%s (leave empty to cancel): ", prompt)
	dir, err := t.readLine(ctx)
	if err != nil || dir == "" {
		return "", false
	}
	return dir, true
}

// Fill prompts for every text field of f. An empty answer keeps the current
// value.
func (t *Terminal) Fill(ctx context.Context, f *Form) error {
	prompts := []struct {
		label string
		field *string
	}{
		{"Enter Station Name", &f.Station},
		{"Enter Latitude", &f.Latitude},
		{"Enter Longitude", &f.Longitude},
	}
	for _, p := range prompts {
		if err := t.promptField(ctx, p.label, p.field); err != nil {
			return err
		}
	}

	modelNames := make([]string, 0, len(models.ClimateModels()))
	for _, m := range models.ClimateModels() {
		modelNames = append(modelNames, m.String())
	}
	if err := t.promptMenu(ctx, "Choose Model", modelNames, &f.Model); err != nil {
		return err
	}

	scenarioNames := make([]string, 0, len(models.Scenarios()))
	for _, s := range models.Scenarios() {
		scenarioNames = append(scenarioNames, s.String())
	}
	if err := t.promptMenu(ctx, "Choose Scenario", scenarioNames, &f.Scenario); err != nil {
		return err
	}

	if err := t.promptField(ctx, "Start Year", &f.StartYear); err != nil {
		return err
	}
	return t.promptField(ctx, "End Year", &f.EndYear)
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	answer, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Run drives the form until the user declines another request, the input
// ends or ctx is cancelled. Submission failures are shown and the loop goes on.
func (t *Terminal) Run(ctx context.Context, f *Form) error {
	for {
		if err := t.Fill(ctx, f); err != nil {
			return endOfInput(err)
		}
		if f.DailyFolder() == "" || !t.keepFolder(ctx, "daily", f.DailyFolder()) {
			f.SelectDailyFolder(ctx)
		}
		if f.MonthlyFolder() == "" || !t.keepFolder(ctx, "monthly", f.MonthlyFolder()) {
			f.SelectMonthlyFolder(ctx)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := f.Submit(ctx); err != nil {
			log.Debug().Err(err).Msg("Submission failed")
		}

		again, err := t.Confirm(ctx, "Process another request?")
		if err != nil {
			return endOfInput(err)
		}
		if !again {
			return nil
		}
	}
}

func (t *Terminal) keepFolder(ctx context.Context, kind, current string) bool {
	fmt.Fprintf(t.out, "Keep %s output folder %s? [Y/n]: ", kind, current)
	answer, err := t.readLine(ctx)
	if err != nil {
		return true
	}
	switch strings.ToLower(answer) {
	case "n", "no":
		return false
	default:
		return true
	}
}

func (t *Terminal) promptField(ctx context.Context, label string, field *string) error {
	if *field != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", label, *field)
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}
	answer, err := t.readLine(ctx)
	if err != nil {
		return err
	}
	if answer != "" {
		*field = answer
	}
	return nil
}

// promptMenu accepts either a 1-based option number or the option text.
// Anything else is stored as typed and left for validation to reject.
func (t *Terminal) promptMenu(ctx context.Context, label string, options []string, field *string) error {
	fmt.Fprintf(t.out, "%s:\n", label)
	for i, opt := range options {
		fmt.Fprintf(t.out, "  %2d) %s\n", i+1, opt)
	}
	if err := t.promptField(ctx, "Selection", field); err != nil {
		return err
	}
	if n, err := strconv.Atoi(*field); err == nil && n >= 1 && n <= len(options) {
		*field = options[n-1]
	}
	return nil
}

// readLine returns the next trimmed input line. The scan runs in its own
// goroutine so a cancelled context unblocks the caller.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type line struct {
		text string
		err  error
	}
	ch := make(chan line, 1)
	go func() {
		if t.in.Scan() {
			ch <- line{text: t.in.Text()}
			return
		}
		err := t.in.Err()
		if err == nil {
			err = io.EOF
		}
		ch <- line{err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-ch:
		return strings.TrimSpace(l.text), l.err
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
