package usecase

import (
	"fmt"
	"strings"
)

func tagPrompt(query string, tags []string) string {
	var sb strings.Builder
	sb.WriteString("Classify the following user query into one of these model tags:\n")
	for _, tag := range tags {
		sb.WriteString("- " + tag + "\n")
	}
	sb.WriteString("\nUser query: " + query + "\n\nRespond with only the tag name.")
	return sb.String()
}

func summaryPrompt(modelID, readme string) string {
	return fmt.Sprintf(`You are a helpful AI agent. Read and summarize the following README.md from the Hugging Face model repository %s.
Give a clear and concise summary focusing on key features, usage instructions, and any important notes.

README:
%s`, modelID, readme)
}

func installPrompt(modelID, readme string) string {
	return fmt.Sprintf(`You are an Installation Instruction Generator.
Read the README.md from the Hugging Face model repository %s and extract every relevant installation instruction.
Identify how to install or use the model, whether through pip, transformers, diffusers, ComfyUI, web UIs, or any other method.
If there are several ways to install or run the model, outline each option.
Include system requirements or setup dependencies if mentioned.
Ignore general model descriptions or research background unless they are tied to setup.
Answer with a clear, step-by-step installation and usage guide.

README:
%s`, modelID, readme)
}
