// Package domain implements the generation workflow: prompt construction,
// output sanitizing and the per-mode orchestration over the adapters.
package domain

import (
	"strings"
	"text/template"

	m "testforge.dev/pkg/testforge/internal/model"
)

// Fixed instruction templates, one per mode. No user-supplied templating is
// exposed; the payload is just the file name and its content.
const (
	testPromptTemplate = `Instructions: Generate pytest cases for the following Python file: {{.FileName}}

{{.Content}}
Generate maximum test cases possible for the above code. Make sure you have done the necessary imports as all the files will be outside the tests folder. Strictly give only final code as output. Don't give things other than python code in output.
Answer: .`

	docPromptTemplate = `Instructions: Generate markdown documentation for the following Python file: {{.FileName}}

{{.Content}}
Generate a detailed markdown document summarizing the file's purpose, public interface and behavior.
Answer with a markdown document.`

	runnerConfigPromptTemplate = `Instructions: Generate a pytest.ini file with the following configurations:
1. testpaths: The folder where the tests are located (tests).
2. addopts: Verbose output (-v).
3. markers: Define smoke and regression markers.
4. Enable log capturing with level INFO and format 'asctime - levelname - message'.
Strictly give only the final configuration file contents as output.
Answer: .`
)

type promptPayload struct {
	FileName string
	Content  string
}

// PromptBuilder renders the fixed per-mode templates. Templates are parsed
// once at construction. No size limit is enforced here; context-length
// problems surface from the model client.
type PromptBuilder struct {
	tests        *template.Template
	docs         *template.Template
	runnerConfig *template.Template
}

// NewPromptBuilder parses the builtin templates.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tests:        template.Must(template.New("tests").Parse(testPromptTemplate)),
		docs:         template.Must(template.New("docs").Parse(docPromptTemplate)),
		runnerConfig: template.Must(template.New("runner-config").Parse(runnerConfigPromptTemplate)),
	}
}

// TestPrompt builds the test-generation prompt for one source file.
func (b *PromptBuilder) TestPrompt(file m.SourceFile) (string, error) {
	return render(b.tests, promptPayload{
		FileName: string(file.RelPath),
		Content:  file.Content,
	})
}

// DocPrompt builds the documentation prompt for one source file.
func (b *PromptBuilder) DocPrompt(file m.SourceFile) (string, error) {
	return render(b.docs, promptPayload{
		FileName: string(file.RelPath),
		Content:  file.Content,
	})
}

// RunnerConfigPrompt builds the prompt for the test-runner configuration.
func (b *PromptBuilder) RunnerConfigPrompt() (string, error) {
	return render(b.runnerConfig, promptPayload{})
}

func render(t *template.Template, payload promptPayload) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, payload); err != nil {
		return "", err
	}

	return sb.String(), nil
}
