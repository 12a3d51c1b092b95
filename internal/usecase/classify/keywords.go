package classify

import "ainews-feed/internal/domain/entity"

// categoryKeywords holds the scoring vocabulary per category. Matching is a
// case-insensitive literal substring count, so multi-word phrases are valid
// keywords. "others" carries no keywords: it is only ever reached as a
// default, never by scoring.
var categoryKeywords = map[entity.Category][]string{
	entity.CategoryModels: {
		"gpt", "llm", "large language model", "claude", "gemini", "llama",
		"mistral", "model", "frontier model", "foundation model", "multimodal",
		"transformer", "context window", "fine-tuning", "inference",
		"benchmark", "open weights", "reasoning",
	},
	entity.CategoryIDE: {
		"copilot", "code completion", "ai ide", "cursor", "code editor",
		"autocomplete", "code assistant", "coding assistant", "code generation",
		"vscode", "jetbrains", "pair programming", "code review",
	},
	entity.CategoryAgents: {
		"agent", "agentic", "autonomous", "tool use", "function calling",
		"multi-agent", "orchestration", "workflow automation", "mcp",
		"computer use", "browser use",
	},
	entity.CategoryInfrastructure: {
		"gpu", "tpu", "cuda", "data center", "datacenter", "nvidia",
		"accelerator", "compute", "chip", "semiconductor", "training cluster",
		"inference serving", "interconnect",
	},
	entity.CategoryResearch: {
		"paper", "arxiv", "research", "study", "breakthrough",
		"state of the art", "peer review", "dataset", "algorithm",
		"architecture", "scaling law",
	},
	entity.CategorySafety: {
		"safety", "alignment", "red team", "jailbreak", "hallucination",
		"bias", "interpretability", "guardrail", "responsible ai", "misuse",
		"regulation", "ai act", "governance",
	},
	entity.CategoryBusiness: {
		"funding", "valuation", "acquisition", "revenue", "startup", "ipo",
		"partnership", "investment", "venture capital", "enterprise",
		"layoff", "hiring", "billion",
	},
	entity.CategoryOpenSource: {
		"open source", "open-source", "apache license", "mit license",
		"hugging face", "self-hosted", "permissive license", "repository",
		"community release", "weights released",
	},
	entity.CategoryApplications: {
		"chatbot", "assistant", "customer service", "healthcare", "education",
		"translation", "image generation", "video generation", "voice",
		"search engine", "recommendation", "productivity",
	},
	entity.CategoryOthers: {},
}

// keywordWeight returns the scoring weight for a keyword, tiered by length:
// longer, more specific keywords are stronger evidence for a category.
func keywordWeight(keyword string) float64 {
	switch {
	case len(keyword) > 10:
		return 3.0
	case len(keyword) > 6:
		return 2.0
	default:
		return 1.0
	}
}
