package tui

import (
	"fmt"
	"strings"

	"batchman/internal/api"
	"batchman/internal/jsonl"
	"batchman/internal/utils"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	maskedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// Batch status colors
var statusStyles = map[string]lipgloss.Style{
	"completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"validating":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"finalizing":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"cancelling":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"failed":      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"expired":     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"cancelled":   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

func statusText(status string) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status)
	}
	return normalStyle.Render(status)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("205"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	return s
}

func newBatchTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 28},
			{Title: "Status", Width: 12},
			{Title: "Requests", Width: 14},
			{Title: "Created", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())
	return t
}

func newFileTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 24},
			{Title: "Filename", Width: 24},
			{Title: "Size", Width: 8},
			{Title: "Purpose", Width: 14},
			{Title: "Created", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())
	return t
}

func batchRows(jobs []api.BatchJob) []table.Row {
	rows := make([]table.Row, 0, len(jobs))
	for _, j := range jobs {
		requests := fmt.Sprintf("%d/%d", j.RequestsDone, j.RequestsTotal)
		if j.RequestsFail > 0 {
			requests += fmt.Sprintf(" !%d", j.RequestsFail)
		}
		rows = append(rows, table.Row{
			j.ID,
			j.Status,
			requests,
			utils.FormatTime(j.CreatedAt),
		})
	}
	return rows
}

func fileRows(files []api.StoredFile) []table.Row {
	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		rows = append(rows, table.Row{
			f.ID,
			f.Filename,
			utils.HumanBytes(f.Bytes),
			f.Purpose,
			utils.FormatTime(f.CreatedAt),
		})
	}
	return rows
}

// RenderProfilesView renders the profile selection list
func (m Model) RenderProfilesView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Batch Manager"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n\n")

	if m.configCreated {
		b.WriteString(messageStyle.Render("✓ created " + m.configPath))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  fill in your API keys, then restart"))
		b.WriteString("\n\n")
	}

	if len(m.profiles) == 0 {
		b.WriteString(dimStyle.Render("no profiles found in " + m.configPath))
		b.WriteString("\n")
	} else {
		visibleHeight := m.getVisibleListHeight()
		startIdx := m.scrollOffset
		endIdx := startIdx + visibleHeight
		if endIdx > len(m.profiles) {
			endIdx = len(m.profiles)
		}

		if startIdx > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more...", startIdx)))
			b.WriteString("\n")
		}

		for i := startIdx; i < endIdx; i++ {
			b.WriteString(m.renderProfileLine(i))
			b.WriteString("\n")
		}

		if endIdx < len(m.profiles) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more...", len(m.profiles)-endIdx)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(""))

	return b.String()
}

// renderProfileLine renders a single profile line in the list
func (m Model) renderProfileLine(index int) string {
	p := m.profiles[index]

	cursor := "  "
	if index == m.cursor {
		cursor = "> "
	}

	keyInfo := maskedStyle.Render(utils.MaskAPIKey(p.APIKey))
	if p.APIKey == "" {
		keyInfo = dimStyle.Render("(no key)")
	}

	content := fmt.Sprintf("%s%-16s", cursor, p.Name)
	if index == m.cursor {
		return selectedStyle.Render(content) + "  " + keyInfo
	}
	return normalStyle.Render(content) + "  " + keyInfo
}

// getEffectiveWidth returns the effective width for rendering, with a minimum and maximum
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 100
	if m.width < maxWidth {
		return m.width - 2
	}
	return maxWidth
}

// RenderBatchesView renders the batch job table
func (m Model) RenderBatchesView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Batch Jobs"))
	b.WriteString(dimStyle.Render("  profile: " + m.profileName))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")

	if m.loading && len(m.batches) == 0 {
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" loading batches..."))
		b.WriteString("\n")
	} else if len(m.batches) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("no batch jobs for this profile"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.batchTable.View())
		b.WriteString("\n")
		if m.hasMore {
			b.WriteString(dimStyle.Render("  ↓ more on server, press m to load"))
			b.WriteString("\n")
		}
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar("Enter: detail │ o/e: logs │ c: cancel │ f: files │ r: refresh │ p: profiles │ q: quit"))

	return b.String()
}

// RenderBatchDetailView renders a single batch job
func (m Model) RenderBatchDetailView() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(60)

	b.WriteString(titleStyle.Render("Batch Detail"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	if m.detail == nil {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" loading batch..."))
		b.WriteString("\n")
	} else {
		j := m.detail

		b.WriteString(sectionStyle.Render("Job"))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("ID:"))
		b.WriteString(valueStyle.Render(j.ID))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Status:"))
		b.WriteString(statusText(j.Status))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Endpoint:"))
		b.WriteString(valueStyle.Render(j.Endpoint))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Created:"))
		b.WriteString(valueStyle.Render(utils.FormatTime(j.CreatedAt)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Completed:"))
		b.WriteString(valueStyle.Render(utils.FormatTime(j.CompletedAt)))
		b.WriteString("\n\n")

		b.WriteString(sectionStyle.Render("Requests"))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Total:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", j.RequestsTotal)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Completed:"))
		b.WriteString(messageStyle.Render(fmt.Sprintf("%d", j.RequestsDone)))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Failed:"))
		if j.RequestsFail > 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf("%d", j.RequestsFail)))
		} else {
			b.WriteString(valueStyle.Render("0"))
		}
		b.WriteString("\n\n")

		b.WriteString(sectionStyle.Render("Files"))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Input:"))
		b.WriteString(m.renderFileRef(j.InputFileID, m.inputName))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Output:"))
		b.WriteString(m.renderFileRef(j.OutputFileID, m.outputName))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Errors:"))
		b.WriteString(m.renderFileRef(j.ErrorFileID, ""))
		b.WriteString("\n")

		if j.FirstError != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("first error: " + m.truncateText(j.FirstError, effectiveWidth-14)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar("o: output log │ e: error log │ d: download output │ r: refresh │ Esc: back"))

	return b.String()
}

func (m Model) renderFileRef(id, name string) string {
	if id == "" {
		return dimStyle.Render("(none)")
	}
	if name != "" {
		return valueStyle.Render(id) + dimStyle.Render("  "+name)
	}
	return valueStyle.Render(id)
}

// RenderFilesView renders the stored file table
func (m Model) RenderFilesView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Stored Files"))
	b.WriteString(dimStyle.Render("  profile: " + m.profileName))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")

	if m.loading && len(m.files) == 0 {
		b.WriteString("\n")
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" loading files..."))
		b.WriteString("\n")
	} else if len(m.files) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("no files uploaded, press u to upload"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.fileTable.View())
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar("u: upload │ d: delete │ o: view │ b: batches │ r: refresh │ p: profiles │ q: quit"))

	return b.String()
}

// RenderLogView renders the scrollable log viewer
func (m Model) RenderLogView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.logTitle))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" downloading log..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.logView.View())
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(fmt.Sprintf("%3.0f%% │ j/k: scroll │ g/G: top/bottom │ r: reload │ Esc: back",
		m.logView.ScrollPercent()*100)))

	return b.String()
}

// RenderConfirmView renders the destructive-action confirmation dialog
func (m Model) RenderConfirmView() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(50)

	title := "Confirm Delete"
	action := "delete file"
	if m.confirmKind == confirmCancelBatch {
		title = "Confirm Cancel"
		action = "cancel batch"
	}

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	b.WriteString(errorStyle.Render("⚠ this cannot be undone"))
	b.WriteString("\n\n")
	b.WriteString(normalStyle.Render("about to " + action + ": "))
	b.WriteString(selectedStyle.Render(m.confirmLabel))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("y: confirm │ n/Esc: cancel"))

	return b.String()
}

// RenderUploadView renders the file picker
func (m Model) RenderUploadView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Upload File"))
	b.WriteString(dimStyle.Render("  purpose: batch"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n\n")

	b.WriteString(m.picker.View())
	b.WriteString("\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(60))))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar("j/k: move │ Enter: pick file │ Esc: back"))

	return b.String()
}

// RenderHelpView renders the help panel
func (m Model) RenderHelpView() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(50)

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(renderHelpLine("j / ↓", "move down"))
	b.WriteString(renderHelpLine("k / ↑", "move up"))
	b.WriteString(renderHelpLine("g / G", "jump to top / bottom"))
	b.WriteString(renderHelpLine("Enter", "select profile / open batch detail"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Batches"))
	b.WriteString("\n")
	b.WriteString(renderHelpLine("r", "refresh listing / retry after error"))
	b.WriteString(renderHelpLine("m", "load next page"))
	b.WriteString(renderHelpLine("o", "view output log"))
	b.WriteString(renderHelpLine("e", "view error log"))
	b.WriteString(renderHelpLine("c", "cancel running batch"))
	b.WriteString(renderHelpLine("d", "download output (in detail view)"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Files"))
	b.WriteString("\n")
	b.WriteString(renderHelpLine("f", "switch to file list"))
	b.WriteString(renderHelpLine("b", "back to batch list"))
	b.WriteString(renderHelpLine("u", "upload a file"))
	b.WriteString(renderHelpLine("d", "delete selected file"))
	b.WriteString(renderHelpLine("o", "view file content"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("General"))
	b.WriteString("\n")
	b.WriteString(renderHelpLine("p", "back to profile selection"))
	b.WriteString(renderHelpLine("?", "show this panel"))
	b.WriteString(renderHelpLine("Esc", "back / cancel"))
	b.WriteString(renderHelpLine("q", "quit"))
	b.WriteString("\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q/Esc/?: back"))

	return b.String()
}

// renderHelpLine renders a single help line with key and description
func renderHelpLine(key, desc string) string {
	keyStyled := helpKeyStyle.Render(fmt.Sprintf("  %-10s", key))
	descStyled := normalStyle.Render(desc)
	return fmt.Sprintf("%s %s\n", keyStyled, descStyled)
}

// renderStatusBar renders error, message and hint lines at the bottom
func (m Model) renderStatusBar(hints string) string {
	var b strings.Builder

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" working..."))
		b.WriteString("\n")
	}

	if hints == "" {
		keys := DefaultKeyMap()
		shortHelp := keys.ShortHelp()
		parts := make([]string, 0, len(shortHelp))
		for _, k := range shortHelp {
			keyStr := helpKeyStyle.Render(k.Help().Key)
			descStr := helpStyle.Render(k.Help().Desc)
			parts = append(parts, fmt.Sprintf("%s %s", keyStr, descStr))
		}
		b.WriteString(strings.Join(parts, helpStyle.Render(" │ ")))
		return b.String()
	}

	b.WriteString(helpStyle.Render(hints))
	return b.String()
}

// truncateText truncates text to fit within maxWidth, adding ellipsis if needed
func (m Model) truncateText(text string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if len(text) <= maxWidth {
		return text
	}
	return text[:maxWidth-3] + "..."
}

// renderLogContent formats a raw JSONL log for the viewport. Each line
// gets a summary header followed by the pretty-printed record.
func renderLogContent(raw string) string {
	var b strings.Builder

	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sum := jsonl.Summarize(line)
		if sum.CustomID != "" {
			header := "── " + sum.CustomID
			if sum.StatusCode != 0 {
				header += fmt.Sprintf(" [%d]", sum.StatusCode)
			}
			b.WriteString(sectionStyle.Render(header))
			b.WriteString("\n")
			if sum.ErrorMsg != "" {
				b.WriteString(errorStyle.Render("error: " + sum.ErrorMsg))
				b.WriteString("\n")
			}
		}

		b.WriteString(jsonl.Pretty(line))
		b.WriteString("\n\n")
	}

	if b.Len() == 0 {
		return dimStyle.Render("(empty file)")
	}
	return b.String()
}
