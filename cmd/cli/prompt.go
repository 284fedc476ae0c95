package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/codewise/internal/core"
	"github.com/sevigo/codewise/internal/discovery"
)

var errPromptCancelled = errors.New("prompt cancelled")

// promptModel asks a single question on one line.
type promptModel struct {
	styles    styles
	question  string
	input     textinput.Model
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(st styles, question, placeholder string) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = st.prompt.Render("► ")
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()
	return promptModel{styles: st, question: question, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return fmt.Sprintf("%s %s\n", m.question, m.styles.answer.Render(m.value))
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		m.styles.prompt.Render(m.question),
		m.input.View(),
		m.styles.inactive.Render("(enter to confirm, esc to cancel)"),
	)
}

// ask runs a prompt program and returns the trimmed answer.
func ask(st styles, question, placeholder string) (string, error) {
	final, err := tea.NewProgram(newPromptModel(st, question, placeholder)).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	m, ok := final.(promptModel)
	if !ok || m.cancelled {
		return "", errPromptCancelled
	}
	return m.value, nil
}

// reviewAnswers are the inputs collected interactively for one run.
type reviewAnswers struct {
	Root       string
	Extensions []string
	Language   core.Language
}

func askReviewQuestions(st styles, defaultExt string) (*reviewAnswers, error) {
	root, err := ask(st, "Enter the path to the repository (default: current directory):", ".")
	if err != nil {
		return nil, err
	}
	rawExts, err := ask(st, "Enter file extensions to include (comma-separated, e.g., .py,.js,.html):", defaultExt)
	if err != nil {
		return nil, err
	}
	rawLang, err := ask(st, "Select language for code review (1 for English, 2 for Spanish):", "1")
	if err != nil {
		return nil, err
	}
	return buildAnswers(root, rawExts, rawLang, defaultExt), nil
}

func buildAnswers(root, rawExts, rawLang, defaultExt string) *reviewAnswers {
	if root == "" {
		root = "."
	}
	lang, ok := core.ParseLanguage(rawLang)
	if !ok {
		warnColor.Println("Invalid selection. Defaulting to English.")
	}
	return &reviewAnswers{
		Root:       root,
		Extensions: discovery.ParseExtensions(rawExts, defaultExt),
		Language:   lang,
	}
}

// askToExit reports true only for an explicit yes.
func askToExit(st styles) (bool, error) {
	answer, err := ask(st, "Do you want to exit? (y/n)", "n")
	if errors.Is(err, errPromptCancelled) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
