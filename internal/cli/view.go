package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/render/elevation"
)

var (
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewFooterStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags pipelineFlags
		view  string
	)

	cmd := &cobra.Command{
		Use:   "view <input>",
		Short: "Scroll through the settled pile in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := elevation.ParseView(view)
			if err != nil {
				return err
			}
			opts, err := c.options(cmd, args[0], flags)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			bricks, err := pipeline.Parse(opts)
			if err != nil {
				return err
			}
			res, _, err := runner.SettleWithCacheInfo(ctx, bricks, pipeline.HashBricks(bricks), opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newElevationModel(args[0], res.Bricks, v),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&view, "view", string(elevation.ViewXZ), "initial projection: xz, yz")

	return cmd
}

// =============================================================================
// elevationModel - scrolling elevation viewer
// =============================================================================

// elevationModel is the bubbletea model for the view command. Offset counts
// lines from the top of the drawing; it starts at the bottom so the ground is
// visible first.
type elevationModel struct {
	title  string
	bricks []brick.Brick
	view   elevation.View
	lines  []string
	offset int
	height int
}

func newElevationModel(title string, bricks []brick.Brick, v elevation.View) elevationModel {
	m := elevationModel{title: title, bricks: bricks, view: v, height: 20}
	m.project()
	m.offset = m.maxOffset()
	return m
}

func (m *elevationModel) project() {
	m.lines = elevation.Project(m.bricks, m.view).Lines()
}

func (m elevationModel) maxOffset() int {
	return max(0, len(m.lines)-m.height)
}

func (m *elevationModel) scroll(delta int) {
	m.offset = min(max(m.offset+delta, 0), m.maxOffset())
}

// anchor keeps the window fromBottom lines above the ground after the
// drawing or the window changed size.
func (m *elevationModel) anchor(fromBottom int) {
	m.offset = max(0, m.maxOffset()-fromBottom)
}

func (m elevationModel) Init() tea.Cmd {
	return nil
}

func (m elevationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-m.height)
		case "pgdown", "f", " ":
			m.scroll(m.height)
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.maxOffset()
		case "v":
			fromBottom := m.maxOffset() - m.offset
			if m.view == elevation.ViewXZ {
				m.view = elevation.ViewYZ
			} else {
				m.view = elevation.ViewXZ
			}
			m.project()
			m.anchor(fromBottom)
		}
	case tea.WindowSizeMsg:
		fromBottom := m.maxOffset() - m.offset
		m.height = max(msg.Height-4, 3)
		m.anchor(fromBottom)
	}
	return m, nil
}

func (m elevationModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %s", m.title, m.view)))
	b.WriteString("\n")
	b.WriteString(viewHelpStyle.Render("↑/↓ scroll  g/G top/bottom  v switch view  q quit"))
	b.WriteString("\n")

	end := min(m.offset+m.height, len(m.lines))
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(viewFooterStyle.Render(fmt.Sprintf("[lines %d-%d of %d]", m.offset+1, end, len(m.lines))))
	return b.String()
}
