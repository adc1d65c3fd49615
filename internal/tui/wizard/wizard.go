// Package wizard is the terminal front end of the record wizard. It renders
// one step of a form.Controller at a time and turns key presses into
// controller operations.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/i18n"
	"github.com/mark3labs/rentdesk/internal/logger"
)

// Options configures a wizard Model.
type Options struct {
	Lang    string
	Catalog *i18n.Catalog

	// SidebarOpen is the initial sidebar state. OnSidebarToggle is called
	// with the new state whenever the user toggles it.
	SidebarOpen     bool
	OnSidebarToggle func(open bool)

	// Context bounds gateway calls. Defaults to context.Background().
	Context context.Context
}

// Result is what the wizard reports when it exits.
type Result struct {
	Record    form.Record // Record returned by the gateway after a save
	Saved     bool
	Cancelled bool
	NotFound  bool // The not-found screen was dismissed
}

// Model is the BubbleTea model for a record wizard.
type Model struct {
	ctl    *form.Controller
	opts   Options
	inputs map[string]*fieldInput
	focus  int // Index into the current step's focusable inputs

	review      *review
	sidebarOpen bool
	notFound    string // Title of the missing record; non-empty shows the not-found screen

	width  int
	height int
	result Result
}

// New creates a wizard driving ctl. The controller must already be
// initialized for a new or an existing record.
func New(ctl *form.Controller, opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := &Model{
		ctl:         ctl,
		opts:        opts,
		inputs:      make(map[string]*fieldInput),
		sidebarOpen: opts.SidebarOpen,
		width:       80,
		height:      24,
	}
	for _, f := range ctl.Schema().Fields {
		m.inputs[f.Name] = newFieldInput(f, ctl.Value(f.Name))
	}
	return m
}

// NewNotFound creates the terminal screen shown when the record to edit
// does not exist. Its only action leads back to the list.
func NewNotFound(title string, opts Options) *Model {
	if title == "" {
		title = "Record"
	}
	return &Model{
		opts:        opts,
		sidebarOpen: opts.SidebarOpen,
		notFound:    title,
		width:       80,
		height:      24,
	}
}

// Run runs the wizard in its own program and returns how it ended.
func Run(m *Model) (*Result, error) {
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	wm, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return &wm.result, nil
}

// Result returns the outcome recorded so far.
func (m *Model) Result() Result {
	return m.result
}

func (m *Model) t(key, fallback, arg string) string {
	return m.opts.Catalog.T(m.opts.Lang, key, fallback, arg)
}

// Init focuses the first input of the current step.
func (m *Model) Init() tea.Cmd {
	if m.ctl == nil {
		return nil
	}
	return m.focusCurrent()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case submitDoneMsg:
		return m, m.handleSubmitDone(msg)

	case EditorDoneMsg:
		m.applyEditor(msg)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	if m.review != nil {
		return m, m.review.Update(msg)
	}
	if fi := m.focused(); fi != nil {
		_, cmd := fi.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if m.notFound != "" {
		switch key {
		case "enter", "esc", "ctrl+c", "q":
			m.result.NotFound = true
			return tea.Quit
		}
		return nil
	}

	// Input is ignored while the gateway call is outstanding; a submission
	// cannot be aborted once issued.
	if m.ctl.Submitting() {
		return nil
	}

	if key == "ctrl+c" {
		m.result.Cancelled = true
		return tea.Quit
	}

	if m.review != nil {
		switch key {
		case "esc", "ctrl+r", "q":
			m.review = nil
			return nil
		}
		return m.review.Update(msg)
	}

	switch key {
	case "ctrl+b":
		m.toggleSidebar()
		return nil
	case "ctrl+r":
		m.openReview()
		return nil
	case "ctrl+e":
		if fi := m.focused(); fi != nil && fi.isText() && fi.field.Kind != form.KindFile {
			return openEditor(fi.name(), fi.text.Value())
		}
		return nil
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "esc":
		if m.ctl.Step() == 1 {
			m.result.Cancelled = true
			return tea.Quit
		}
		m.ctl.GoPrevious()
		m.focus = 0
		return m.focusCurrent()
	case "enter":
		return m.advance()
	}

	if n, ok := stepShortcut(key); ok {
		if m.ctl.JumpToStep(n) {
			m.focus = 0
			return m.focusCurrent()
		}
		return nil
	}

	fi := m.focused()
	if fi == nil {
		return nil
	}
	changed, cmd := fi.Update(msg)
	if changed {
		m.commit(fi)
	}
	return cmd
}

// stepShortcut maps alt+1 … alt+9 to a step number.
func stepShortcut(key string) (int, bool) {
	if len(key) != 5 || !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	d := key[4]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '0'), true
}

// advance moves to the next step, or submits on the last one.
func (m *Model) advance() tea.Cmd {
	if m.ctl.Step() < m.ctl.StepCount() {
		if m.ctl.GoNext() {
			m.focus = 0
		} else {
			m.focusFirstError()
		}
		return m.focusCurrent()
	}
	return m.submit()
}

func (m *Model) submit() tea.Cmd {
	sub, err := m.ctl.PrepareSubmit()
	if err != nil {
		if errors.Is(err, form.ErrInvalid) {
			m.jumpToFirstError()
			return m.focusCurrent()
		}
		logger.Debug("Submit ignored: %v", err)
		return nil
	}

	ctl, ctx := m.ctl, m.opts.Context
	return func() tea.Msg {
		rec, err := ctl.Send(ctx, sub)
		return submitDoneMsg{record: rec, err: err}
	}
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	if msg.err == nil {
		m.result.Record = msg.record
		m.result.Saved = true
		return tea.Quit
	}
	// The user stays on the final step; errors for fields on other steps
	// are listed in the banner.
	m.focusFirstError()
	return m.focusCurrent()
}

// commit pushes an input's value into the draft and refreshes derived fields.
func (m *Model) commit(fi *fieldInput) {
	if err := m.ctl.UpdateField(fi.name(), fi.Value()); err != nil {
		logger.Warn("Updating field %s: %v", fi.name(), err)
		return
	}
	m.syncDerived()
}

func (m *Model) syncDerived() {
	for _, fi := range m.inputs {
		if fi.field.ReadOnly {
			fi.SetValue(m.ctl.Value(fi.name()))
		}
	}
}

func (m *Model) applyEditor(msg EditorDoneMsg) {
	fi, ok := m.inputs[msg.Field]
	if !ok || fi.field.ReadOnly {
		return
	}
	fi.SetValue(strings.TrimRight(msg.Content, "\r\n"))
	m.commit(fi)
}

func (m *Model) toggleSidebar() {
	m.sidebarOpen = !m.sidebarOpen
	if m.opts.OnSidebarToggle != nil {
		m.opts.OnSidebarToggle(m.sidebarOpen)
	}
	m.resize()
}

func (m *Model) openReview() {
	title := m.t("wizard.review", "Review", "") + ": " + m.title()
	noChanges := m.t("wizard.no_changes", "No changes", "")
	md := summaryMarkdown(title, noChanges, m.ctl.Schema(), m.ctl.Draft(), m.ctl.Original(), m.ctl.Errors())
	w, h := m.contentSize()
	m.review = newReview(md, w, h)
}

// stepInputs returns the focusable inputs of the current step.
func (m *Model) stepInputs() []*fieldInput {
	var out []*fieldInput
	for _, f := range m.ctl.Schema().StepFields(m.ctl.Step()) {
		if fi := m.inputs[f.Name]; fi != nil && fi.focusable() {
			out = append(out, fi)
		}
	}
	return out
}

func (m *Model) focused() *fieldInput {
	if m.ctl == nil {
		return nil
	}
	inputs := m.stepInputs()
	if m.focus < 0 || m.focus >= len(inputs) {
		return nil
	}
	return inputs[m.focus]
}

func (m *Model) focusCurrent() tea.Cmd {
	for _, fi := range m.inputs {
		fi.Blur()
	}
	inputs := m.stepInputs()
	if len(inputs) == 0 {
		return nil
	}
	if m.focus >= len(inputs) {
		m.focus = len(inputs) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	return inputs[m.focus].Focus()
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := len(m.stepInputs())
	if n == 0 {
		return nil
	}
	m.focus = (m.focus + delta + n) % n
	return m.focusCurrent()
}

// focusFirstError focuses the first errored input of the current step.
func (m *Model) focusFirstError() {
	errs := m.ctl.Errors()
	for i, fi := range m.stepInputs() {
		if _, ok := errs[fi.name()]; ok {
			m.focus = i
			return
		}
	}
}

// jumpToFirstError shows the earliest step that has an error.
func (m *Model) jumpToFirstError() {
	errs := m.ctl.Errors()
	if len(errs) == 0 {
		return
	}
	schema := m.ctl.Schema()
	for i := 1; i <= schema.StepCount(); i++ {
		for _, f := range schema.StepFields(i) {
			if _, ok := errs[f.Name]; ok {
				m.ctl.JumpToStep(i)
				m.focus = 0
				m.focusFirstError()
				return
			}
		}
	}
}

func (m *Model) contentSize() (int, int) {
	w := min(m.width-10, 100)
	if m.sidebarOpen {
		w -= sidebarWidth
	}
	return max(w, 40), max(m.height-12, 6)
}

func (m *Model) resize() {
	w, h := m.contentSize()
	for _, fi := range m.inputs {
		fi.SetWidth(min(w-4, 60))
	}
	if m.review != nil {
		m.review.SetSize(w, h)
	}
}

func (m *Model) title() string {
	if m.notFound != "" {
		return m.notFound
	}
	schema := m.ctl.Schema()
	if id := m.ctl.ID(); id != "" {
		return m.t("wizard.edit", "Edit {arg}", schema.Title+" #"+id)
	}
	return m.t("wizard.new", "New {arg}", schema.Title)
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render returns the modal without placing it on the screen.
func (m *Model) render() string {
	if m.notFound != "" {
		return m.renderNotFound()
	}

	s := styles()
	var sections []string

	step := m.ctl.Step()
	schema := m.ctl.Schema()
	header := s.HeaderTitle.Render(m.title())
	if step <= len(schema.Steps) {
		counter := m.t("wizard.step", "Step {arg}", fmt.Sprintf("%d/%d", step, schema.StepCount()))
		header += "  " + s.Muted.Render(counter+" · "+schema.Steps[step-1].Title)
	}
	sections = append(sections, header, "")

	if msg := m.ctl.FormError(); msg != "" {
		sections = append(sections, s.Banner.Render(msg), "")
	}
	for _, msg := range m.offStepErrors() {
		sections = append(sections, s.Banner.Render(msg))
	}

	var body string
	if m.review != nil {
		body = m.review.View()
	} else {
		body = m.renderFields()
	}
	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}
	sections = append(sections, body, "")

	w, _ := m.contentSize()
	bar := NewButtonBar(m.buttons())
	bar.SetWidth(w)
	sections = append(sections, bar.Render(), "", m.hints())

	return s.ModalContainer.Width(w + 6).Render(strings.Join(sections, "\n"))
}

// offStepErrors describes errors attached to fields outside the current
// step, e.g. a server rejection of a field entered earlier.
func (m *Model) offStepErrors() []string {
	errs := m.ctl.Errors()
	if len(errs) == 0 {
		return nil
	}
	schema := m.ctl.Schema()
	var out []string
	for i := 1; i <= schema.StepCount(); i++ {
		if i == m.ctl.Step() {
			continue
		}
		for _, f := range schema.StepFields(i) {
			if msg, ok := errs[f.Name]; ok {
				step := m.t("wizard.step", "Step {arg}", fmt.Sprint(i))
				out = append(out, fmt.Sprintf("%s: %s (%s)", f.Label, msg, step))
			}
		}
	}
	return out
}

func (m *Model) renderFields() string {
	s := styles()
	errs := m.ctl.Errors()
	current := m.focused()

	var lines []string
	for _, f := range m.ctl.Schema().StepFields(m.ctl.Step()) {
		fi := m.inputs[f.Name]
		focused := fi == current

		label := f.Label
		if f.Required {
			label += " *"
		}
		if focused {
			lines = append(lines, s.LabelFocused.Render("▸ "+label))
		} else {
			lines = append(lines, s.Label.Render("  "+label))
		}
		lines = append(lines, "  "+fi.View(focused))
		if msg, ok := errs[f.Name]; ok {
			lines = append(lines, "  "+s.FieldError.Render(msg))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

const sidebarWidth = 24

func (m *Model) renderSidebar() string {
	s := styles()
	current := m.ctl.Step()

	var lines []string
	for i, step := range m.ctl.Schema().Steps {
		n := i + 1
		text := fmt.Sprintf("%d. %s", n, step.Title)
		switch {
		case n == current:
			lines = append(lines, s.StepCurrent.Render("● "+text))
		case n < current:
			lines = append(lines, s.StepDone.Render("✓ "+text))
		default:
			lines = append(lines, s.StepTodo.Render("○ "+text))
		}
	}
	lines = append(lines, "", s.Muted.Render("alt+N to jump"))
	return s.Sidebar.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) buttons() []Button {
	back := m.t("wizard.back", "Back", "")
	next := m.t("wizard.next", "Next", "")
	last := m.ctl.Step() >= m.ctl.StepCount()
	if last {
		next = m.t("wizard.submit", "Submit", "")
	}

	submitting := m.ctl.Submitting()
	if submitting {
		next = m.t("wizard.submitting", "Submitting…", "")
	}
	return CreateBackNextButtons(back, m.ctl.Step() > 1 && !submitting, next, !submitting)
}

func (m *Model) hints() string {
	if m.ctl.Submitting() {
		return styles().Muted.Render(m.t("wizard.please_wait", "Submitting, please wait…", ""))
	}
	if m.review != nil {
		return renderHintBar("↑/↓", "scroll", "esc", "close")
	}
	return renderHintBar(
		"tab", "field",
		"enter", "next",
		"esc", "back",
		"ctrl+r", strings.ToLower(m.t("wizard.review", "Review", "")),
		"ctrl+e", "editor",
		"ctrl+b", "steps",
	)
}

func (m *Model) renderNotFound() string {
	s := styles()
	w, _ := m.contentSize()

	bar := NewButtonBar([]Button{{
		Label: m.t("wizard.back_to_list", "Back to list", ""),
		State: ButtonFocused,
	}})
	bar.SetWidth(w)

	sections := []string{
		s.HeaderTitle.Render(m.notFound),
		"",
		s.Value.Render(m.t("wizard.not_found", "This record does not exist or was removed.", "")),
		"",
		bar.Render(),
	}
	return s.ModalContainer.Width(w + 6).Render(strings.Join(sections, "\n"))
}
