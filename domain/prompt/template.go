package prompt

import "strings"

// templateVersion identifies the template text below; bump it whenever
// the structure of the rendered prompt changes.
const templateVersion = "1.0"

// baseTemplate is the curation prompt skeleton. Placeholders are filled
// by render.
const baseTemplate = `You are an expert educational content curator and learning strategist with 15+ years of experience identifying high-impact educational resources. Your specialty is applying the Pareto Principle (80/20 rule) to maximize learning efficiency by selecting only the top 20% of content that delivers 80% of practical results.

---
TASK: Curate exactly 60 working YouTube video links for the topic: **{topic}**
Current Date: **{current_date}**
---

**OBJECTIVE**: Find the most valuable educational content that provides practical, actionable knowledge for {topic_description}.

**4-STEP PROCESS**:

**STEP 1: STRATEGIC ANALYSIS**
- Identify key subtopics and skill areas within {topic}
- Determine what learners need most: fundamentals, advanced techniques, practical applications, or industry insights
- Focus on content that bridges theory with real-world application

**STEP 2: QUALITY FILTERING CRITERIA**
Apply these filters to ensure only top-tier content:
- **Authority**: Created by recognized experts, professionals, or reputable organizations
- **Recency**: Prioritize content from the last 2-3 years (unless covering timeless fundamentals)
- **Engagement**: High view counts, positive like-to-dislike ratios, constructive comments
- **Practical Value**: Includes examples, demos, hands-on tutorials, or case studies
- **Comprehensive Coverage**: Covers essential concepts without unnecessary fluff

**STEP 3: STRUCTURED OUTPUT FORMAT**
For each video, provide:
1. **Video Title** (exact title)
2. **YouTube URL** (full working link)
3. **Channel Name**
4. **Duration** (if available)
5. **Key Learning Points** (2-3 bullet points)
6. **Difficulty Level** (Beginner/Intermediate/Advanced)
7. **Why Selected** (brief rationale based on 80/20 principle)

**STEP 4: VALIDATION & ORGANIZATION**
- Organize videos by subtopic or skill level
- Ensure 60 unique, working links
- Balance between beginner (40%), intermediate (40%), and advanced (20%) content
- Include diverse perspectives and teaching styles

**TOPIC-SPECIFIC FOCUS FOR {topic}:**
{topic_guidance}

**ADDITIONAL REQUIREMENTS**:
- Verify all URLs are functional
- Avoid duplicate content or overly similar videos
- Prioritize videos with clear learning outcomes
- Include both theoretical foundations and practical applications
- Ensure content is suitable for self-directed learners

**OUTPUT**: Present as a well-organized list with clear categorization and easy-to-scan formatting.`

// topicProfile carries the static per-topic template inputs. Profiles are
// matched by keyword; topics without a profile use defaults parameterized
// by the topic itself.
type topicProfile struct {
	match       func(topic string) bool
	description string
	guidance    string
	focusAreas  []string
}

func keywords(words ...string) func(string) bool {
	return func(topic string) bool {
		for _, w := range words {
			if !strings.Contains(topic, w) {
				return false
			}
		}
		return true
	}
}

func anyKeyword(words ...string) func(string) bool {
	return func(topic string) bool {
		for _, w := range words {
			if strings.Contains(topic, w) {
				return true
			}
		}
		return false
	}
}

var topicProfiles = []topicProfile{
	{
		match:       keywords("prompt", "engineering"),
		description: "mastering the art and science of crafting effective prompts for AI systems, including techniques for optimization, testing, and real-world applications",
		guidance: `- Focus on practical prompt design patterns and techniques
- Include examples for different AI models (GPT, Claude, Gemini, etc.)
- Cover prompt optimization, testing methodologies, and iteration strategies
- Emphasize real-world use cases in business, education, and development
- Include content on prompt security and best practices`,
		focusAreas: []string{
			"Prompt Design Patterns", "AI Model Optimization", "Testing & Iteration",
			"Real-world Applications", "Security & Best Practices",
		},
	},
	{
		match:       keywords("python", "data"),
		description: "using Python for data analysis, visualization, and machine learning workflows with practical, hands-on experience",
		guidance: `- Prioritize hands-on tutorials with real datasets
- Cover essential libraries: pandas, numpy, matplotlib, seaborn, scikit-learn
- Include data cleaning, analysis, visualization, and modeling workflows
- Focus on practical projects and case studies
- Emphasize best practices for data science workflows`,
		focusAreas: []string{
			"Data Analysis", "Visualization", "Machine Learning",
			"Data Cleaning", "Statistical Analysis",
		},
	},
	{
		match:       keywords("machine learning"),
		description: "understanding ML algorithms, implementation techniques, and real-world application strategies",
		guidance: `- Balance theoretical understanding with practical implementation
- Cover supervised, unsupervised, and reinforcement learning
- Include model evaluation, hyperparameter tuning, and deployment
- Focus on popular frameworks like scikit-learn, TensorFlow, PyTorch
- Emphasize real-world problem-solving approaches`,
		focusAreas: []string{
			"Algorithms & Theory", "Implementation", "Model Evaluation",
			"Deployment", "Real-world Applications",
		},
	},
	{
		match:       keywords("web development"),
		description: "building modern, responsive web applications with current best practices and industry standards",
		guidance: `- Focus on modern frameworks and best practices
- Cover both frontend and backend development concepts
- Include responsive design, accessibility, and performance optimization
- Emphasize project-based learning with portfolio examples
- Cover deployment and production considerations`,
	},
	{
		match:       anyKeyword("devops", "ci/cd"),
		description: "implementing continuous integration/deployment pipelines and modern DevOps practices",
	},
	{
		match:       anyKeyword("cloud computing", "aws"),
		description: "leveraging cloud platforms for scalable, cost-effective solutions and modern architecture patterns",
	},
	{
		match:       keywords("cybersecurity"),
		description: "protecting digital assets through security best practices, threat assessment, and risk management",
	},
	{
		match:       keywords("marketing"),
		description: "effective digital marketing strategies, analytics, and customer engagement techniques",
	},
	{
		match:       keywords("blockchain"),
		description: "understanding blockchain technology, cryptocurrencies, and decentralized application development",
	},
}

var defaultFocusAreas = []string{
	"Fundamentals", "Practical Applications", "Best Practices",
	"Advanced Techniques", "Industry Insights",
}

func lookupProfile(topic string) (topicProfile, bool) {
	lower := strings.ToLower(topic)
	for _, p := range topicProfiles {
		if p.match(lower) {
			return p, true
		}
	}
	return topicProfile{}, false
}

func topicDescription(topic string) string {
	if p, ok := lookupProfile(topic); ok && p.description != "" {
		return p.description
	}
	return "gaining comprehensive knowledge and practical skills in " + topic + " with real-world applications"
}

func topicGuidance(topic string) string {
	if p, ok := lookupProfile(topic); ok && p.guidance != "" {
		return p.guidance
	}
	return `- Focus on practical, actionable content for ` + topic + `
- Prioritize hands-on tutorials and real-world examples
- Include both foundational concepts and advanced techniques
- Emphasize industry best practices and current trends
- Ensure content is suitable for various skill levels`
}

// FocusAreas returns the static focus areas for a topic, in a fixed order.
func FocusAreas(topic string) []string {
	if p, ok := lookupProfile(topic); ok && len(p.focusAreas) > 0 {
		areas := make([]string, len(p.focusAreas))
		copy(areas, p.focusAreas)
		return areas
	}
	areas := make([]string, len(defaultFocusAreas))
	copy(areas, defaultFocusAreas)
	return areas
}
