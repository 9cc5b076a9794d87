package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/ui/components"
	"github.com/abhisek/aiquiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	var content string
	switch s.state.Phase() {
	case session.PhaseLoading:
		content = s.renderLoading()
	case session.PhaseError:
		content = s.renderError(width)
	case session.PhaseIdle:
		content = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("No topic selected. Press c to pick one.")
	default:
		content = s.renderQuestion(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *QuizScreen) renderLoading() string {
	badge := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Bold(true).
		Padding(0, 1).
		Render("Generating MCQs…")

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render("Calling AI and validating JSON…")

	return lipgloss.JoinVertical(lipgloss.Center,
		s.spinner.View()+badge,
		"",
		hint,
	)
}

func (s *QuizScreen) renderError(width int) string {
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Render("Something went wrong")

	msg := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(s.state.Snapshot().Error)

	return lipgloss.JoinVertical(lipgloss.Center, title, "", msg, "", s.buttons.View())
}

func (s *QuizScreen) renderQuestion(width int) string {
	snap := s.state.Snapshot()
	cw := components.ContentWidth(width)
	prog := snap.Progress()
	completed := s.state.Completed()

	var b strings.Builder

	topicBadge := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Secondary).
		Bold(true).
		Padding(0, 1).
		Render(snap.Quiz.Topic)
	heading := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("Question %d / %d", prog.Position, prog.Total))
	b.WriteString(topicBadge + "  " + heading + "\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d answered", prog.Answered, prog.Total)))
	b.WriteString("\n\n")

	percent := float64(prog.Position) / float64(max(prog.Total, 1))
	b.WriteString(components.NewProgressBar("", percent, fmt.Sprintf("%d%%", int(percent*100)), cw).View())
	b.WriteString("\n\n")

	card := s.choice.View()
	if !completed && s.choice.Chosen < 0 {
		card += "\n" + lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("⚠ Please select an answer before moving to the next question")
	}
	b.WriteString(components.Card(card, cw))
	b.WriteString("\n\n")

	b.WriteString(renderDots(snap, completed))

	if completed {
		b.WriteString("\n\n")
		b.WriteString(s.renderResults(snap, cw))
	}

	return b.String()
}

// renderDots shows one marker per question: the current one highlighted,
// answered ones ticked, and after completion right/wrong marks.
func renderDots(snap session.Snapshot, completed bool) string {
	sum := session.BuildSummary(snap)
	if sum == nil {
		return ""
	}

	parts := make([]string, 0, len(sum.Results))
	for i, r := range sum.Results {
		label := fmt.Sprintf("%d", i+1)
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case completed && r.Correct:
			label = "✓"
			style = style.Foreground(theme.Success)
		case completed:
			label = "✗"
			style = style.Foreground(theme.Error)
		case r.Answered:
			label = "✓"
			style = style.Foreground(theme.Cyan)
		}
		if i == snap.CurrentIndex {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render("["+label+"]"))
	}
	return strings.Join(parts, " ")
}

func (s *QuizScreen) renderResults(snap session.Snapshot, cw int) string {
	sum := session.BuildSummary(snap)

	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Error)
	if sum.Score >= 3 {
		scoreStyle = scoreStyle.Foreground(theme.Success)
	}

	lines := []string{
		scoreStyle.Render(fmt.Sprintf("Score: %d / %d", sum.Score, sum.Total)),
		lipgloss.NewStyle().Foreground(theme.Text).Render(scoreMessage(sum.Score, sum.Total)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Correct answers are highlighted in green above."),
	}

	switch {
	case s.feedbackLoading:
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.TextDim).Render("⏳ Loading feedback..."))
	case s.feedback != "":
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("AI Feedback"),
			lipgloss.NewStyle().Foreground(theme.Text).Width(cw-4).Render(s.feedback),
		)
	default:
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press f for AI feedback"))
	}

	return components.CardWithBorder(strings.Join(lines, "\n"), cw, lipgloss.DoubleBorder(), theme.Cyan)
}

func scoreMessage(score, total int) string {
	switch {
	case score == total:
		return "Perfect score!"
	case score >= 3:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}
