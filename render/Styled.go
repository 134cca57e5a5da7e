package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samuelfneumann/snakelearn/game"
)

var (
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true)
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// Styled renders the snapshot as a coloured, bordered board for a
// terminal. Each cell is two characters wide so that the board is
// roughly square.
func Styled(s game.Snapshot) string {
	plain := strings.Split(strings.TrimRight(s.String(), "\n"), "\n")

	var b strings.Builder
	for y, row := range plain {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			switch c {
			case '#':
				b.WriteString(headStyle.Render("██"))
			case 'o':
				b.WriteString(bodyStyle.Render("██"))
			case '*':
				b.WriteString(foodStyle.Render("●"))
				b.WriteByte(' ')
			default:
				b.WriteString(emptyStyle.Render("· "))
			}
		}
	}

	return boardStyle.Render(b.String())
}
