package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/barcoder/internal/config"
	"github.com/nconklindev/barcoder/internal/converter"
	"github.com/nconklindev/barcoder/internal/export"
	"github.com/nconklindev/barcoder/internal/generator"
	"github.com/nconklindev/barcoder/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type state int

const (
	stateFilePicker state = iota
	stateForm
	statePreview
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state        state
	cfg          config.Config
	log          zerolog.Logger
	filepicker   filepicker.Model
	barcode      textinput.Model
	preview      table.Model
	selectedFile string
	fileData     *types.FileData
	status       string
	statusErr    bool
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg config.Config, log zerolog.Logger) Model {
	fp := filepicker.New()
	fp.AllowedTypes = converter.AllowedTypes
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorSoft)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorSoft)
	fp.Styles.File = lipgloss.NewStyle().Foreground(colorWhite)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(colorMuted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(colorMuted)

	ti := textinput.New()
	ti.Placeholder = "4600000000017"
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = ""

	prog := progress.New(progress.WithGradient("#2EC4B6", "#CBF3F0"))

	return Model{
		state:      stateFilePicker,
		cfg:        cfg,
		log:        log,
		filepicker: fp,
		barcode:    ti,
		progress:   prog,
		status:     "Ready. Choose a spreadsheet and enter the starting barcode.",
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		if m.fileData != nil {
			m.preview.SetHeight(height)
		}

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case stateFilePicker:
			if msg.String() == "q" {
				return m, tea.Quit
			}

		case stateForm:
			return m.updateForm(msg)

		case statePreview:
			switch msg.String() {
			case "esc", "q", "enter":
				m.state = stateForm
				cmd := m.barcode.Focus()
				return m, cmd
			}
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd

		case stateProcessing:
			// the generate trigger stays disabled until the run finishes
			return m, nil

		case stateComplete:
			switch msg.String() {
			case "enter":
				m.state = stateForm
				m.result = nil
				cmd := m.barcode.Focus()
				return m, cmd
			case "q", "esc":
				return m, tea.Quit
			}
			return m, nil

		case stateError:
			switch msg.String() {
			case "enter", "esc":
				m.err = nil
				m.state = stateFilePicker
				return m, nil
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.preview = newPreviewTable(msg.data, m.height)
		m.state = stateForm
		m.setStatus(fmt.Sprintf("Loaded %d product row(s) from %s.", len(msg.data.Rows), filepath.Base(m.selectedFile)), false)
		cmd := m.barcode.Focus()
		return m, tea.Batch(cmd, textinput.Blink)

	case conversionCompleteMsg:
		if msg.err != nil {
			m.state = stateForm
			m.setStatus(describeError(msg.err), true)
			cmd := m.barcode.Focus()
			return m, cmd
		}
		m.result = msg.result
		m.state = stateComplete
		m.setStatus("Files generated.", false)
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	switch m.state {
	case stateFilePicker:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}
		return m, cmd

	case stateForm:
		var cmd tea.Cmd
		m.barcode, cmd = m.barcode.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.barcode.Blur()
		m.state = stateFilePicker
		return m, nil
	case "enter":
		m.state = stateProcessing
		m.setStatus("Processing file...", false)
		return m.convertFile()
	case "ctrl+p":
		if m.fileData != nil {
			m.barcode.Blur()
			m.state = statePreview
		}
		return m, nil
	case "ctrl+f":
		if m.cfg.Output.Format == string(export.FormatXLSX) {
			m.cfg.Output.Format = string(export.FormatCSV)
		} else {
			m.cfg.Output.Format = string(export.FormatXLSX)
		}
		return m, nil
	case "ctrl+o":
		m.cfg.Output.Zip = !m.cfg.Output.Zip
		return m, nil
	case "ctrl+n":
		m.cfg.Transform.CoerceNumbers = !m.cfg.Transform.CoerceNumbers
		return m, nil
	case "ctrl+t":
		m.cfg.Transform.StrictColumns = !m.cfg.Transform.StrictColumns
		return m, nil
	}

	var cmd tea.Cmd
	m.barcode, cmd = m.barcode.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) loadFile(path string) tea.Cmd {
	opts := converter.ReadOptions{HeaderRows: m.cfg.Input.HeaderRows}
	return func() tea.Msg {
		data, err := converter.ReadFileData(path, opts, 0)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	// Capture everything the goroutine needs; the model is a value.
	cfg := m.cfg
	gen := generator.New(&cfg, m.log)
	req := generator.Request{File: m.selectedFile, Barcode: m.barcode.Value()}
	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := gen.Run(context.Background(), req, progressChan)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.SetPercent(0),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

// describeError turns a run failure into the status line shown under the
// form.
func describeError(err error) string {
	var (
		invalid   *converter.InvalidBarcodeError
		parseErr  *converter.SpreadsheetParseError
		malformed *converter.MalformedInputError
	)
	switch {
	case errors.Is(err, converter.ErrMissingFile):
		return "Please choose a spreadsheet file."
	case errors.Is(err, converter.ErrMissingBarcode):
		return "Please enter the starting barcode."
	case errors.As(err, &invalid):
		return fmt.Sprintf("Barcode %q must contain digits only.", invalid.Value)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Spreadsheet error: %v", parseErr.Err)
	case errors.As(err, &malformed):
		return fmt.Sprintf("Malformed input: %v", malformed)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}

func newPreviewTable(data *types.FileData, height int) table.Model {
	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = lipgloss.Width(h)
	}
	rows := make([]table.Row, len(data.Rows))
	for i, r := range data.Rows {
		rows[i] = table.Row(r)
		for j, cell := range r {
			if w := lipgloss.Width(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	if widths[0] > 48 {
		widths[0] = 48
	}

	columns := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}

	tableHeight := height - 14
	if tableHeight < 5 {
		tableHeight = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorAccent).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorAccent).
		Bold(true)
	t.SetStyles(s)

	return t
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateForm:
		return m.viewForm()
	case statePreview:
		return m.viewPreview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▮▯▮ Barcoder - 1C catalog and receipt generator"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an Excel file (.xlsx, .xls) with name, quantity and price columns"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func toggle(on bool, label string) string {
	if on {
		return OnStyle.Render("[x] " + label)
	}
	return OffStyle.Render("[ ] " + label)
}

func (m Model) viewForm() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▮▯▮ Generate 1C files"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Start barcode"))
	s.WriteString(m.barcode.View())
	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Format"))
	s.WriteString(ValueStyle.Render(m.cfg.Output.Format))
	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Output"))
	s.WriteString(ValueStyle.Render(m.cfg.Output.Dir))
	s.WriteString("\n\n")

	s.WriteString(toggle(m.cfg.Output.Zip, "zip archive"))
	s.WriteString("  ")
	s.WriteString(toggle(m.cfg.Transform.CoerceNumbers, "numeric receipt values"))
	s.WriteString("  ")
	s.WriteString(toggle(m.cfg.Transform.StrictColumns, "require 3 columns"))
	s.WriteString("\n\n")

	if m.statusErr {
		s.WriteString(ErrorStyle.Render("✗ " + m.status))
	} else {
		s.WriteString(InfoStyle.Render(m.status))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: generate • ctrl+p: preview • ctrl+f: format • ctrl+o: zip • ctrl+n: numbers • ctrl+t: strict • esc: change file"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▮▯▮ Preview"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s • %d product row(s)", filepath.Base(m.selectedFile), len(m.fileData.Rows))))
	s.WriteString("\n\n")
	s.WriteString(m.preview.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: scroll • esc: close"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▮▯▮ Processing..."))
	s.WriteString("\n\n")
	s.WriteString(InfoStyle.Render(m.status))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Files generated"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:    %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	for _, out := range m.result.OutputFiles {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:   %s", truncatePath(out, maxPathLen))))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Products: %d\n", m.result.RowsProcessed))
	if m.result.RowsProcessed > 0 {
		s.WriteString(fmt.Sprintf("Barcodes: %s - %s\n", m.result.FirstBarcode, m.result.LastBarcode))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: generate again • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(describeError(m.err))
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: choose another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, max int) string {
	if len(path) > max {
		return "..." + path[len(path)-max+3:]
	}
	return path
}
