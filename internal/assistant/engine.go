// Package assistant implements the canned conversational engine and its
// persisted, append-only message log.
package assistant

import "strings"

// GreetingMessage opens every fresh conversation log.
const GreetingMessage = "Hello! I'm your AI assistant. I can help you with copywriting, SEO optimization, content creation, and more. How can I assist you today?"

const greetingResponse = `Hi there! 👋 Great to see you!

I'm your AI assistant, ready to help you with:

✨ Content creation & copywriting
🎯 Marketing campaigns
📈 SEO optimization
💡 Creative ideas

What can I help you create today?`

const thanksResponse = `You're very welcome! 😊

I'm always here to help you create amazing content. Feel free to ask me anything about:

📝 Writing & copywriting
🚀 Marketing strategies
💼 Business content
🎨 Creative ideas

What else can I assist you with?`

const homepageResponse = `Here are 3 compelling homepage headlines for you:

1. "Transform Your Business with AI-Powered Solutions"
2. "Where Innovation Meets Excellence - Your Success Starts Here"
3. "Unlock Your Potential with Our Expert Solutions"

Each headline focuses on transformation, value, and customer benefit. Would you like me to create variations or help with the supporting copy?`

const seoResponse = `Here's an SEO-optimized meta description:

"Boost your business with our innovative solutions. Expert services, proven results, and 24/7 support. Get started today and see the difference quality makes."

✅ 155 characters (optimal length)
✅ Includes action words
✅ Clear value proposition
✅ Call-to-action

Want me to create variations for different pages?`

const productResponse = `Here are compelling product features:

🚀 **Lightning Fast Performance** - 3x faster than competitors
🔒 **Enterprise Security** - Bank-level encryption & compliance
📱 **Mobile Optimized** - Perfect experience on any device
🎯 **Smart Analytics** - Real-time insights & reporting
⚡ **Easy Integration** - Setup in under 5 minutes

Each feature highlights a specific benefit. Need help expanding on any of these?`

const emailResponse = `Here are high-converting email subject lines:

📧 "Your exclusive 50% discount expires tonight"
📧 "[Name], this changes everything..."
📧 "The secret successful businesses don't want you to know"
📧 "Quick question about your goals"
📧 "You're missing out on this opportunity"

These use urgency, personalization, and curiosity. Want me to create more for your specific campaign?`

const contentResponse = `Content creation strategy:

📝 **Blog Topics:**
• "10 Ways to Boost Your Productivity Today"
• "The Ultimate Guide to [Your Industry] Success"
• "Common Mistakes That Cost You Money"

🎯 **Content Pillars:**
• Educational (60%) - How-to guides, tutorials
• Inspirational (25%) - Success stories, tips
• Promotional (15%) - Product features, offers

What type of content would you like me to help create?`

const socialResponse = `Social media content ideas:

📱 **Engagement Posts:**
• "What's your biggest challenge in [industry]? Comment below!"
• "Before vs After: See the transformation"
• "Quick tip: [Share valuable insight]"

🔥 **Trending Formats:**
• Carousel posts (10x more engagement)
• Behind-the-scenes content
• User-generated content
• Polls and questions

Which platform are you focusing on?`

const copywritingResponse = `High-converting copywriting framework:

🎯 **AIDA Formula:**
• **Attention:** Bold headline that stops scrolling
• **Interest:** Share relatable problem/benefit
• **Desire:** Paint picture of success
• **Action:** Clear, compelling CTA

💡 **Power Words:** Exclusive, Proven, Guaranteed, Limited, Free, Instant, Secret

📈 **CTA Examples:**
• "Get Your Free Analysis Now"
• "Start Your Transformation Today"
• "Claim Your Spot (Limited Time)"

What specific copy do you need help with?`

const defaultResponse = `I'd be happy to help you with that! Here's what I can assist you with:

✨ **Content Creation:**
• Website copy & headlines
• Blog posts & articles
• Social media content

🎯 **Marketing:**
• Email campaigns
• Sales copy
• Product descriptions

📈 **SEO & Optimization:**
• Meta descriptions
• Keyword research
• Content optimization

Could you be more specific about what you need? For example:
• "Write a homepage headline for a tech startup"
• "Create an email subject line for a sale"
• "Generate product features for an app"`

// responseCategory pairs trigger keywords with their canned template. The
// slice order is the matching priority; the first category with any keyword
// contained in the lower-cased input wins.
type responseCategory struct {
	keywords []string
	response string
}

var responseCategories = []responseCategory{
	{keywords: []string{"hi", "hello", "hey"}, response: greetingResponse},
	{keywords: []string{"thank", "thanks"}, response: thanksResponse},
	{keywords: []string{"homepage", "headline", "hero"}, response: homepageResponse},
	{keywords: []string{"seo", "meta", "description"}, response: seoResponse},
	{keywords: []string{"product", "feature", "benefit"}, response: productResponse},
	{keywords: []string{"email", "subject", "newsletter"}, response: emailResponse},
	{keywords: []string{"content", "blog", "article"}, response: contentResponse},
	{keywords: []string{"social", "post", "caption"}, response: socialResponse},
	{keywords: []string{"copy", "sales", "convert"}, response: copywritingResponse},
}

// GenerateResponse maps free-text input to a canned template by ordered
// keyword match. It is deterministic and total: the same input always yields
// the same non-empty output, and nothing from the input is interpolated.
func GenerateResponse(userInput string) string {
	loweredInput := strings.ToLower(userInput)
	for _, category := range responseCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(loweredInput, keyword) {
				return category.response
			}
		}
	}
	return defaultResponse
}
