package agent

// NotebookLMTeamID is the id the run workflow resolves
const NotebookLMTeamID = "notebooklm"

// NotebookLMTeam returns the research-and-writing team that answers questions
// about notebooks
func NotebookLMTeam() *Team {
	researcher := Member{
		ID:   "researcher",
		Name: "Researcher",
		Role: "Research and analyze documents, extract key information, and identify important concepts",
		Instructions: []string{
			"You are a research specialist for NotebookLM.",
			"Analyze documents thoroughly and extract key facts, themes, and insights.",
			"Identify connections between different pieces of information.",
			"Provide well-structured analysis with citations from the source material.",
			"Always cite your sources.",
		},
	}

	writer := Member{
		ID:   "writer",
		Name: "Writer",
		Role: "Write summaries, study guides, FAQs, and structured notes based on research",
		Instructions: []string{
			"You are a writing specialist for NotebookLM.",
			"Create clear, well-organized summaries and study materials.",
			"Adapt your writing style to the requested format (summary, study guide, FAQ, notes).",
			"Use bullet points, headings, and structured formatting for readability.",
		},
	}

	return &Team{
		ID:          NotebookLMTeamID,
		Name:        "NotebookLM",
		Description: "A team that helps users understand, analyze, and learn from their documents",
		Members:     []Member{researcher, writer},
		Instructions: []string{
			"You are NotebookLM, an AI-powered research and note-taking assistant.",
			"Help users understand their documents by drawing on your team members:",
			"- Use the Researcher for document analysis, fact extraction, and finding connections.",
			"- Use the Writer for creating summaries, study guides, FAQs, and structured notes.",
			"Always ground your responses in the source material provided by the user.",
		},
		Markdown:             true,
		AddDatetimeToContext: true,
		AddHistoryToContext:  true,
		NumHistoryRuns:       5,
	}
}
