package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradebook"
	"github.com/Veraticus/gradebook/internal/report"
	"github.com/Veraticus/gradebook/internal/service"
)

const menuRule = "=================================================="

type menuItem struct {
	run   func(ctx context.Context) error
	label string
}

// Session is the numbered-menu interactive gradebook. It owns the roster
// until Run returns; the roster is only persisted by "Save and Exit".
type Session struct {
	book     *gradebook.Weighted
	store    service.Store
	reader   *NonBlockingReader
	writer   io.Writer
	now      func() time.Time
	items    []menuItem
	weighted bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a session over book. weighted selects the extended menu
// with category grades and weights.
func NewSession(book *gradebook.Weighted, store service.Store, reader io.Reader, writer io.Writer, weighted bool, opts ...SessionOption) *Session {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	s := &Session{
		book:     book,
		store:    store,
		reader:   NewNonBlockingReader(reader),
		writer:   writer,
		now:      time.Now,
		weighted: weighted,
	}
	for _, opt := range opts {
		opt(s)
	}

	if weighted {
		s.items = []menuItem{
			{label: "Add Student", run: s.addStudent},
			{label: "Add Grade (Overall)", run: s.addGrade},
			{label: "Add Grade (by Category)", run: s.addCategoryGrade},
			{label: "View All Students", run: s.viewAll},
			{label: "View Detailed Student Info", run: s.viewDetailed},
			{label: "View Weighted Student Info", run: s.viewWeighted},
			{label: "Rank Students (Regular)", run: s.rank},
			{label: "Rank Students (Weighted)", run: s.rankWeighted},
			{label: "View Grade Distribution", run: s.distribution},
			{label: "View Class Statistics", run: s.statistics},
			{label: "Search Student", run: s.search},
			{label: "Manage Category Weights", run: s.manageWeights},
			{label: "View Category Weights", run: s.viewWeights},
			{label: "Generate Grade Report", run: s.generateReport},
			{label: "Export Report", run: s.exportReport},
			{label: "Save and Exit"},
		}
	} else {
		s.items = []menuItem{
			{label: "Add Student", run: s.addStudent},
			{label: "Add Grade (Overall)", run: s.addGrade},
			{label: "Add Grade (by Subject)", run: s.addSubjectGrade},
			{label: "View All Students", run: s.viewAll},
			{label: "View Detailed Student Info", run: s.viewDetailed},
			{label: "Rank Students by Performance", run: s.rank},
			{label: "View Grade Distribution", run: s.distribution},
			{label: "View Class Statistics", run: s.statistics},
			{label: "Search Student", run: s.search},
			{label: "Export Report", run: s.exportReport},
			{label: "Save and Exit"},
		}
	}

	return s
}

// Run drives the menu loop until "Save and Exit" is chosen. Invalid input
// and rejected operations are reported and the loop continues. If the
// input ends or ctx is canceled first, Run returns an error and nothing is
// saved. A failed save is reported and returned.
func (s *Session) Run(ctx context.Context) error {
	title := "STUDENT GRADEBOOK"
	if s.weighted {
		title = "ENHANCED STUDENT GRADEBOOK"
	}
	s.println(FormatTitle(title))

	for {
		s.printMenu()

		choice, err := s.readChoice(ctx)
		if err != nil {
			return fmt.Errorf("session ended without saving: %w", err)
		}

		item := s.items[choice-1]
		if item.run == nil {
			return s.saveAndExit(ctx)
		}

		if err := item.run(ctx); err != nil {
			if isInputEnd(err) {
				return fmt.Errorf("session ended without saving: %w", err)
			}
			if common.IsValidation(err) {
				slog.Debug("Menu action rejected", "choice", choice, "error", err)
			} else {
				slog.Warn("Menu action failed", "choice", choice, "error", err)
			}
			s.println(FormatError(common.UserMessage(err)))
		}
	}
}

func isInputEnd(err error) bool {
	return errors.Is(err, ErrInputCancelled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *Session) printMenu() {
	header := "MAIN MENU"
	if s.weighted {
		header = "ENHANCED MAIN MENU"
	}

	var b strings.Builder
	b.WriteString("\n" + SubtleStyle.Render(menuRule) + "\n")
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%*s", (len(menuRule)+len(header))/2, header)) + "\n")
	b.WriteString(SubtleStyle.Render(menuRule) + "\n")
	for i, item := range s.items {
		fmt.Fprintf(&b, "%-4s%s\n", strconv.Itoa(i+1)+".", item.label)
	}
	b.WriteString(SubtleStyle.Render(menuRule))
	s.println(b.String())
}

func (s *Session) readChoice(ctx context.Context) (int, error) {
	n := len(s.items)
	for {
		line, err := s.prompt(ctx, fmt.Sprintf("Enter your choice (1-%d)", n))
		if err != nil {
			return 0, err
		}

		choice, err := strconv.Atoi(line)
		switch {
		case err != nil:
			s.println(FormatWarning("Please enter a valid number."))
		case choice < 1 || choice > n:
			s.println(FormatWarning(fmt.Sprintf("Please enter a number between 1 and %d.", n)))
		default:
			return choice, nil
		}
	}
}

func (s *Session) prompt(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(s.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return s.reader.ReadLine(ctx)
}

func (s *Session) promptID(ctx context.Context) (int, error) {
	line, err := s.prompt(ctx, "Enter student ID")
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(line)
	if err != nil {
		return 0, common.NewUserError("Invalid ID. Please enter a number.",
			fmt.Errorf("%w: student id %q", common.ErrInvalidInput, line))
	}
	return id, nil
}

func (s *Session) promptGrade(ctx context.Context) (float64, error) {
	line, err := s.prompt(ctx, "Enter grade (0-100)")
	if err != nil {
		return 0, err
	}
	grade, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, common.NewUserError("Invalid input. Please enter valid numbers.",
			fmt.Errorf("%w: grade %q", common.ErrInvalidInput, line))
	}
	return grade, nil
}

func (s *Session) promptName(ctx context.Context, label, emptyMessage string) (string, error) {
	name, err := s.prompt(ctx, label)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", common.NewUserError(emptyMessage, common.ErrInvalidInput)
	}
	return name, nil
}

func (s *Session) addStudent(ctx context.Context) error {
	s.println("\n" + FormatSection("ADD STUDENT"))
	name, err := s.promptName(ctx, "Enter student name", "Name cannot be empty!")
	if err != nil {
		return err
	}
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}

	if _, err := s.book.AddStudent(name, id); err != nil {
		return ExplainRosterError(id, err)
	}
	s.println(FormatSuccess(fmt.Sprintf("Student %s (ID: %d) added successfully!", name, id)))
	return nil
}

func (s *Session) addGrade(ctx context.Context) error {
	s.println("\n" + FormatSection("ADD GRADE (OVERALL)"))
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}
	grade, err := s.promptGrade(ctx)
	if err != nil {
		return err
	}

	if err := s.book.AddGrade(id, grade); err != nil {
		return ExplainRosterError(id, err)
	}
	return s.gradeAdded(id, grade, "")
}

func (s *Session) addSubjectGrade(ctx context.Context) error {
	s.println("\n" + FormatSection("ADD GRADE (BY SUBJECT)"))
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}
	subject, err := s.promptName(ctx, "Enter subject name", "Subject name cannot be empty!")
	if err != nil {
		return err
	}
	grade, err := s.promptGrade(ctx)
	if err != nil {
		return err
	}

	if err := s.book.AddSubjectGrade(id, subject, grade); err != nil {
		return ExplainRosterError(id, err)
	}
	return s.gradeAdded(id, grade, subject)
}

func (s *Session) addCategoryGrade(ctx context.Context) error {
	s.println("\n" + FormatSection("ADD GRADE (BY CATEGORY)"))
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}
	category, err := s.promptName(ctx, "Enter category (e.g., Homework, Tests, Projects)", "Category name cannot be empty!")
	if err != nil {
		return err
	}
	grade, err := s.promptGrade(ctx)
	if err != nil {
		return err
	}

	if err := s.book.AddCategoryGrade(id, category, grade); err != nil {
		return ExplainRosterError(id, err)
	}
	return s.gradeAdded(id, grade, category)
}

func (s *Session) gradeAdded(id int, grade float64, group string) error {
	student, err := s.book.FindByID(id)
	if err != nil {
		return ExplainRosterError(id, err)
	}
	msg := fmt.Sprintf("Grade %s added for %s", strconv.FormatFloat(grade, 'f', -1, 64), student.Name())
	if group != "" {
		msg += " in " + group
	}
	s.println(FormatSuccess(msg))
	return nil
}

func (s *Session) viewAll(_ context.Context) error {
	s.println("\n" + FormatSection("ALL STUDENTS"))
	if s.book.Len() == 0 {
		s.println(FormatInfo("No students in the gradebook."))
		return nil
	}
	for i, student := range s.book.Students() {
		s.println(fmt.Sprintf("%d. %s", i+1, student))
	}
	return nil
}

func (s *Session) viewDetailed(_ context.Context) error {
	s.println("\n" + FormatSection("DETAILED STUDENT INFORMATION"))
	if s.book.Len() == 0 {
		s.println(FormatInfo("No students in the gradebook."))
		return nil
	}
	for i, d := range s.book.Details() {
		s.println(fmt.Sprintf("%d. %s---", i+1, report.FormatDetail(d)))
	}
	return nil
}

func (s *Session) viewWeighted(ctx context.Context) error {
	s.println("\n" + FormatSection("WEIGHTED STUDENT INFORMATION"))
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}
	d, err := s.book.Detail(id)
	if err != nil {
		return ExplainRosterError(id, err)
	}
	s.println(report.FormatWeightedDetail(d))
	return nil
}

func (s *Session) rank(_ context.Context) error {
	title := "STUDENT RANKINGS"
	if s.weighted {
		title = "STUDENT RANKINGS (REGULAR)"
	}
	s.println("\n" + FormatSection(title))
	s.println(report.FormatRankings(s.book.RankByAverage(), "Average"))
	return nil
}

func (s *Session) rankWeighted(_ context.Context) error {
	s.println("\n" + FormatSection("STUDENT RANKINGS (WEIGHTED)"))
	s.println(report.FormatRankings(s.book.RankByWeightedAverage(), "Weighted Average"))
	return nil
}

func (s *Session) distribution(_ context.Context) error {
	s.println("\n" + FormatSection("GRADE DISTRIBUTION"))
	if s.book.Len() == 0 {
		s.println(FormatInfo("No students to analyze."))
		return nil
	}
	s.println(report.FormatDistribution(s.book.Distribution()))
	return nil
}

func (s *Session) statistics(_ context.Context) error {
	s.println("\n" + FormatSection("CLASS STATISTICS"))
	if s.book.Len() == 0 {
		s.println(FormatInfo("No students to analyze."))
		return nil
	}
	s.println(report.FormatStatistics(s.book.Statistics()))
	return nil
}

func (s *Session) search(ctx context.Context) error {
	s.println("\n" + FormatSection("SEARCH STUDENT"))
	id, err := s.promptID(ctx)
	if err != nil {
		return err
	}
	d, err := s.book.Detail(id)
	if err != nil {
		return ExplainRosterError(id, err)
	}

	if s.weighted {
		s.println(report.FormatWeightedDetail(d))
		return nil
	}
	s.println(FormatSuccess("Student Found:"))
	s.println(report.FormatDetail(d))
	return nil
}

func (s *Session) manageWeights(ctx context.Context) error {
	s.println("\n" + FormatSection("MANAGE CATEGORY WEIGHTS"))
	s.println("Current category weights:")
	s.println(report.FormatWeights(s.book.SortedWeights()))

	category, err := s.promptName(ctx, "Enter category name", "Category name cannot be empty!")
	if err != nil {
		return err
	}
	line, err := s.prompt(ctx, "Enter weight (0.0 to 1.0)")
	if err != nil {
		return err
	}
	weight, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return common.NewUserError("Invalid weight. Please enter a number between 0.0 and 1.0.",
			fmt.Errorf("%w: weight %q", common.ErrInvalidInput, line))
	}

	if err := s.book.SetCategoryWeight(category, weight); err != nil {
		if errors.Is(err, common.ErrOutOfRange) {
			return common.NewUserError("Weight must be between 0.0 and 1.0", err)
		}
		return err
	}
	s.println(FormatSuccess(fmt.Sprintf("Category weight for %s set to %.1f%%", category, weight*100)))
	return nil
}

func (s *Session) viewWeights(_ context.Context) error {
	s.println("\n" + FormatSection("CATEGORY WEIGHTS"))
	s.println(report.FormatWeights(s.book.SortedWeights()))
	return nil
}

func (s *Session) generateReport(_ context.Context) error {
	s.println("\n" + FormatSection("GENERATE GRADE REPORT"))
	if s.book.Len() == 0 {
		s.println(FormatInfo("No students to generate report for."))
		return nil
	}
	s.println(report.NewTextFormatter().Format(report.Build(s.book, s.now())))
	return nil
}

func (s *Session) exportReport(ctx context.Context) error {
	s.println("\n" + FormatSection("EXPORT REPORT"))
	filename, err := s.prompt(ctx, "Enter filename for report (e.g., report.txt)")
	if err != nil {
		return err
	}

	written, err := report.WriteFile(filename, report.Build(s.book, s.now()))
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Error exporting report: %v", err), err)
	}
	s.println(FormatSuccess("Report exported to " + written))
	return nil
}

func (s *Session) saveAndExit(ctx context.Context) error {
	s.println("\n" + FormatSection("SAVING AND EXITING"))
	if err := s.store.Save(ctx, s.book); err != nil {
		s.println(FormatError("There was an error saving data. Please check your file permissions."))
		return fmt.Errorf("failed to save gradebook: %w", err)
	}
	s.println(FormatSuccess("Data saved successfully. Goodbye!"))
	return nil
}

func (s *Session) println(text string) {
	if _, err := fmt.Fprintln(s.writer, text); err != nil {
		slog.Warn("Failed to write session output", "error", err)
	}
}
