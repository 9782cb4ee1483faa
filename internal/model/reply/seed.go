package reply

import "github.com/zhouzirui/career-companion/backend/internal/analysis/intent"

const welcomeText = "Hello! I'm your AI Career Companion. I'm here to help you with career guidance, skill recommendations, internship tips, and learning paths. What would you like to know?"

var seedResponses = map[intent.Label]string{
	intent.Skills:     "Based on your interests in AI and Web Development, I recommend focusing on Python, JavaScript/TypeScript, and frameworks like TensorFlow or PyTorch. Start with fundamentals and gradually move to advanced topics. Would you like a detailed learning roadmap?",
	intent.Internship: "Great question! For internships, focus on: 1) Build 2-3 solid projects, 2) Contribute to open source, 3) Network on LinkedIn, 4) Apply to programs like Google Summer of Code. Start applying 3-4 months before you want to intern.",
	intent.Career:     "Based on your profile, I see strong potential in Software Engineering, Data Science, and AI/ML roles. Your interests align well with tech companies. Would you like me to show you the top 3 recommended career paths with salary ranges?",
	intent.Placement:  "To ace placements: 1) Master DSA (Data Structures & Algorithms), 2) Practice coding on LeetCode, 3) Build projects, 4) Prepare for system design, 5) Mock interviews. Start 6 months before placements.",
	intent.Projects:   "Here are recommended projects: 1) Build a predictive ML model, 2) Create a full-stack web app, 3) Develop a Python automation tool, 4) Contribute to open source. Pick projects that align with your interests!",
	intent.Coding:     "To improve coding: 1) Daily practice on coding platforms, 2) Understand algorithms deeply, 3) Build real projects, 4) Code review others' code, 5) Participate in competitions. Consistency is key!",
	intent.Default:    "That's a great question! I'm your AI career companion. I can help with career guidance, skill recommendations, internship tips, and learning paths. What specific area would you like help with?",
}

var seedPrompts = []string{
	"What skills should I learn for my career goals?",
	"Guide me for internship opportunities",
	"Which career path is best for me?",
	"How can I prepare for placements?",
	"What projects should I build?",
	"How to improve my coding skills?",
}

// Seed provides the built-in catalog used when no catalog file is configured.
func Seed() Catalog {
	table, err := NewTable(seedResponses)
	if err != nil {
		panic(err)
	}
	return Catalog{
		Table:   table,
		Welcome: welcomeText,
		Prompts: append([]string(nil), seedPrompts...),
	}
}
