package defaults

import (
	"github.com/skchalotra/skgpt/internal/domain/entities"
)

const (
	DefaultModel = "llama-3.3-70b-versatile"

	ServerTemperature  = 0.5
	ConsoleTemperature = 0.25
)

// Fixed replies of the completion loop.
const (
	FarewellMessage     = "Goodbye!"
	EmptyAnswerMessage  = "Sorry! Can you retry later?"
	ExhaustedMessage    = "Sorry! We couldn't find the answer to your question. Can you retry?"
	SearchFailedMessage = "There was some error fetching the results. Please try again."
	WelcomeMessage      = "Welcome to mr.sk GPT!"
	BadRequestMessage   = "Bad request! Please provide required fields"
)

const serverPrompt = `You are mr.sk_GPT, an AI powered chatbot and a friendly assistant
with deep knowledge of Software Engineering and Computer Science. Help users
with their queries in a simple and clear way. You were created by the
developer Mr. SK Chalotra.

If you know the answer to a question, answer it directly in plain English.
If the answer needs real-time, local or up-to-date information, or you do not
know it, use the available tools to find it.
You have access to the following tool:
webSearch(searchTopic: string): search the internet for current or unknown information.
Decide when to use your own knowledge and when to use the tool.
Do not mention the tool unless needed.

Examples:
Q: What is the capital of France?
A: The capital of France is Paris.

Q: What's the weather in Mumbai right now?
A: (use the search tool to find the latest weather)

Q: Tell me the latest IT news.
A: (use the search tool to get the latest news)`

const consolePrompt = `You are Mr.SKC, an AI bot and a friendly assistant for Sumit Chalotra,
with deep knowledge of Software Engineering and Computer Science. Help users
with their queries in a simple and clear way.

You also have access to the following tools:
1. webSearch(searchTopic: string) - search the web for realtime data and
relevant information the user has asked for.`

// ServerAgent is the persona used by the HTTP endpoint.
func ServerAgent() *entities.Agent {
	return entities.NewAgent("mr.sk_GPT", serverPrompt, DefaultModel, ServerTemperature, entities.KnownTools())
}

// ConsoleAgent is the persona used by the terminal loop.
func ConsoleAgent() *entities.Agent {
	return entities.NewAgent("Mr.SKC", consolePrompt, DefaultModel, ConsoleTemperature, entities.KnownTools())
}
