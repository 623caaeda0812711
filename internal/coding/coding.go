// Package coding holds the coding-challenge editor defaults and formats
// grading results.
package coding

import (
	"fmt"
	"strings"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/toast"
)

const (
	// DefaultTopic is used when the skill has no title.
	DefaultTopic = "Python Basics"
	// DefaultDifficulty is sent with every generate request.
	DefaultDifficulty = "Medium"
	// DefaultLanguage is the editor's initial language.
	DefaultLanguage = "python"
)

// Languages lists the supported editor languages.
func Languages() []string { return []string{"python", "javascript"} }

// ValidLanguage reports whether lang is supported.
func ValidLanguage(lang string) bool {
	for _, l := range Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

const pythonBoilerplate = `# Write your Python code here

def solution(input_str):
    # Your code
    return input_str

# Do not modify the input reading logic if provided
import sys
# input_str = sys.stdin.read()
# print(solution(input_str))
`

const javascriptBoilerplate = `// Write your JavaScript code here

function solution(inputStr) {
    // Your code
    return inputStr;
}

// Do not modify standard input reading
const fs = require('fs');
const input = fs.readFileSync(0, 'utf-8');
// console.log(solution(input));
`

// Boilerplate returns the starter code for lang.
func Boilerplate(lang string) string {
	if lang == "javascript" {
		return javascriptBoilerplate
	}
	return pythonBoilerplate
}

// Extension returns the source file extension for lang.
func Extension(lang string) string {
	if lang == "javascript" {
		return "js"
	}
	return "py"
}

// NextLanguage cycles through Languages.
func NextLanguage(lang string) string {
	langs := Languages()
	for i, l := range langs {
		if l == lang {
			return langs[(i+1)%len(langs)]
		}
	}
	return DefaultLanguage
}

// GenerateRequest builds a question request for a skill.
func GenerateRequest(skill api.Skill) api.GenerateQuestionRequest {
	topic := strings.TrimSpace(skill.Title)
	if topic == "" {
		topic = DefaultTopic
	}
	return api.GenerateQuestionRequest{SkillID: skill.ID, Topic: topic, Difficulty: DefaultDifficulty}
}

// Summary condenses a graded submission.
type Summary struct {
	Passed    int
	Total     int
	AllPassed bool
}

// Summarize counts passing results. An empty result list has Total 0.
func Summarize(res *api.SubmitResult) Summary {
	if res == nil {
		return Summary{}
	}
	s := Summary{Total: len(res.Results)}
	for _, r := range res.Results {
		if r.Passed {
			s.Passed++
		}
	}
	s.AllPassed = s.Total > 0 && s.Passed == s.Total
	return s
}

// Notice returns the notification for a submission.
func (s Summary) Notice() (toast.Kind, string) {
	switch {
	case s.Total == 0:
		return toast.KindError, "Execution failed without results."
	case s.AllPassed:
		return toast.KindSuccess, fmt.Sprintf("All %d tests passed! 🎉", s.Total)
	default:
		return toast.KindWarning, fmt.Sprintf("%d/%d tests passed", s.Passed, s.Total)
	}
}

// String renders "3 / 4 Tests Passed".
func (s Summary) String() string {
	return fmt.Sprintf("%d / %d Tests Passed", s.Passed, s.Total)
}

// CaseView is a test result prepared for display.
type CaseView struct {
	Title    string
	Passed   bool
	Hidden   bool
	Input    string
	Expected string
	Actual   string
	Error    string
}

// Cases prepares results for display. Hidden cases keep only their verdict.
func Cases(results []api.TestResult) []CaseView {
	out := make([]CaseView, len(results))
	for i, r := range results {
		v := CaseView{Title: fmt.Sprintf("Test Case %d", i+1), Passed: r.Passed, Hidden: r.IsHidden}
		if r.IsHidden {
			v.Title += " (hidden)"
		} else {
			v.Input = r.Input
			v.Expected = r.Expected
			v.Actual = r.Actual
			v.Error = r.Error
		}
		out[i] = v
	}
	return out
}

// VisibleTestCases returns the examples shown with a question.
func VisibleTestCases(q *api.CodingQuestion) []api.TestCase {
	if q == nil {
		return nil
	}
	var out []api.TestCase
	for _, tc := range q.TestCases {
		if !tc.IsHidden {
			out = append(out, tc)
		}
	}
	return out
}
