// Package console is the interactive operator shell: menu, prompts and table output.
package console

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/validation"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorTeal    = lipgloss.Color("#2CD7C7")
	colorTealDim = lipgloss.Color("#16858E")
	colorSlate   = lipgloss.Color("#2C4A54")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
)

// Renderer writes styled text and tables. Colors are dropped automatically
// when out is not a terminal.
type Renderer struct {
	out     io.Writer
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
}

func NewRenderer(out io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		title:   lg.NewStyle().Bold(true).Foreground(colorTeal),
		success: lg.NewStyle().Foreground(colorTeal),
		warning: lg.NewStyle().Foreground(colorWarning),
		failure: lg.NewStyle().Foreground(colorError),
		muted:   lg.NewStyle().Foreground(colorSlate),
		label:   lg.NewStyle().Bold(true).Width(14),
		header:  lg.NewStyle().Bold(true).Foreground(colorTeal).Padding(0, 1),
		cell:    lg.NewStyle().Padding(0, 1),
	}
}

func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) Println(text string) {
	fmt.Fprintln(r.out, text)
}

func (r *Renderer) Heading(text string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.title.Render("== "+text+" =="))
}

func (r *Renderer) Success(text string) {
	fmt.Fprintln(r.out, r.success.Render("✓ "+text))
}

func (r *Renderer) Warn(text string) {
	fmt.Fprintln(r.out, r.warning.Render("⚠ "+text))
}

func (r *Renderer) Error(text string) {
	fmt.Fprintln(r.out, r.failure.Render("✗ "+text))
}

func (r *Renderer) Info(text string) {
	fmt.Fprintln(r.out, r.muted.Render("│")+" "+text)
}

// Field is one labelled line of a Fields block.
type Field struct {
	Label string
	Value string
}

func (r *Renderer) Fields(title string, fields []Field) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, title)
	for _, f := range fields {
		fmt.Fprintln(r.out, "  "+r.label.Render(f.Label+":")+" "+f.Value)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		r.Info("No rows found.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.muted.Foreground(colorTealDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})
	fmt.Fprintln(r.out, t.String())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(validation.DateTimeLayout)
}

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func activeLabel(active bool) string {
	if active {
		return "1"
	}
	return "0"
}

func (r *Renderer) Flights(flights []domain.FlightView) {
	rows := make([][]string, 0, len(flights))
	for _, f := range flights {
		rows = append(rows, []string{
			f.FlightNo, string(f.Status), formatTime(f.Departure), formatTime(f.Arrival),
			f.Origin, f.Destination, f.Aircraft, formatTime(f.LastUpdate),
		})
	}
	r.Table([]string{"Flight", "Status", "Departure", "Arrival", "Origin", "Destination", "Aircraft", "Last Update"}, rows)
}

func (r *Renderer) Schedule(entries []domain.ScheduleEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			formatID(e.PilotID), e.PilotName, string(e.Role), e.FlightNo, formatTime(e.Departure), formatTime(e.Arrival),
			string(e.Status), e.Origin, e.Destination, formatTime(e.AssignedAt),
		})
	}
	r.Table([]string{"Pilot ID", "Pilot", "Role", "Flight", "Departure", "Arrival", "Status", "Origin", "Destination", "Assigned At"}, rows)
}

func (r *Renderer) Crew(crew []domain.CrewAssignment) {
	rows := make([][]string, 0, len(crew))
	for _, a := range crew {
		rows = append(rows, []string{string(a.Role), formatID(a.PilotID), formatTime(a.AssignedAt)})
	}
	r.Table([]string{"Role", "Pilot ID", "Assigned At"}, rows)
}

func (r *Renderer) Destinations(destinations []domain.Destination) {
	rows := make([][]string, 0, len(destinations))
	for _, d := range destinations {
		rows = append(rows, []string{formatID(d.ID), d.IATA, d.AirportName, d.City, d.Country, activeLabel(d.IsActive)})
	}
	r.Table([]string{"ID", "IATA", "Airport", "City", "Country", "Active"}, rows)
}

func (r *Renderer) BookingSummary(s *domain.BookingSummary) {
	r.Fields("Flight summary:", []Field{
		{Label: "Flight", Value: fmt.Sprintf("%s  (%s → %s)", s.Flight.FlightNo, s.Flight.Origin, s.Flight.Destination)},
		{Label: "Departure", Value: formatTime(s.Flight.Departure)},
		{Label: "Bookings", Value: strconv.Itoa(s.Total)},
	})
	if len(s.ByStatus) == 0 {
		r.Info("No bookings found for this flight.")
		return
	}
	r.Println("By status:")
	rows := make([][]string, 0, len(s.ByStatus))
	for _, c := range s.ByStatus {
		rows = append(rows, []string{string(c.Status), strconv.Itoa(c.Count)})
	}
	r.Table([]string{"Status", "Count"}, rows)
}

func (r *Renderer) Traffic(report []domain.DestinationTraffic) {
	rows := make([][]string, 0, len(report))
	for _, t := range report {
		rows = append(rows, []string{t.IATA, t.City, t.Country, strconv.Itoa(t.TotalFlights)})
	}
	r.Table([]string{"IATA", "City", "Country", "Flights"}, rows)
}

func (r *Renderer) Workload(report []domain.PilotWorkload) {
	rows := make([][]string, 0, len(report))
	for _, w := range report {
		rows = append(rows, []string{formatID(w.PilotID), w.Name, strconv.Itoa(w.TotalAssigned)})
	}
	r.Table([]string{"Pilot ID", "Pilot", "Assignments"}, rows)
}
