package gemini

import "strings"

// demoTemplate is the canned curation returned when the gateway runs in
// demo mode. It mirrors the structure of a real model answer so the
// front end renders identically in both modes.
const demoTemplate = `# Demo Response for {topic}

## Top YouTube Video Recommendations

Here are carefully curated educational videos for **{topic}**:

### Beginner Level (40%)
1. **Introduction to {topic}: Complete Beginner's Guide**
   - Channel: TechEdu Academy
   - Duration: 25:30
   - Key Points: Fundamentals, basic concepts, getting started
   - Why Selected: Perfect entry point with clear explanations

2. **{topic} Explained Simply - Step by Step Tutorial**
   - Channel: Learn With Me
   - Duration: 18:45
   - Key Points: Practical examples, hands-on approach
   - Why Selected: Excellent for visual learners

### Intermediate Level (40%)
3. **Advanced {topic} Techniques and Best Practices**
   - Channel: Pro Developer
   - Duration: 32:15
   - Key Points: Industry standards, optimization tips
   - Why Selected: Bridges beginner to professional level

4. **Real-World {topic} Project Walkthrough**
   - Channel: Code Masters
   - Duration: 45:20
   - Key Points: Complete project, problem-solving
   - Why Selected: Practical application focus

### Advanced Level (20%)
5. **Expert-Level {topic} Strategies and Patterns**
   - Channel: Tech Experts
   - Duration: 28:10
   - Key Points: Advanced concepts, scalability
   - Why Selected: Cutting-edge techniques

*Note: This is a demo response. Connect your Gemini API key for full AI-powered content curation with 60 personalized video recommendations.*

## Key Learning Path
1. Start with fundamentals
2. Practice with tutorials
3. Build real projects
4. Explore advanced concepts
5. Stay updated with trends

**Estimated Learning Time**: 40-60 hours for comprehensive understanding
**Recommended Pace**: 5-7 videos per week with hands-on practice`

func demoContent(topic string) string {
	if strings.TrimSpace(topic) == "" {
		topic = "the requested topic"
	}
	return strings.ReplaceAll(demoTemplate, "{topic}", topic)
}
