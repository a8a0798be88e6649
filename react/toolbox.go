package react

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RegisterReferenceTools registers the built-in demonstration tools on a
// registry: a canned knowledge-base search, a calculator, a date lookup,
// and a mock weather report. They exist so the loop can be exercised end to
// end without network access; production callers register their own tools.
func RegisterReferenceTools(r *Registry) error {
	if err := registerSearch(r); err != nil {
		return err
	}
	if err := registerCalculator(r); err != nil {
		return err
	}
	if err := registerCurrentDate(r); err != nil {
		return err
	}
	return registerWeather(r)
}

// searchFacts is the canned corpus behind the search tool. Keys match as
// substrings of the lowered query.
var searchFacts = map[string]string{
	"gpt-3 release":         "GPT-3 was released by OpenAI in June 2020.",
	"openai ceo":            "Sam Altman is the CEO of OpenAI (as of 2020-2024).",
	"first iphone":          "The first iPhone was released by Apple on June 29, 2007.",
	"python release":        "Python was first released in 1991 by Guido van Rossum.",
	"popular language 2007": "According to the TIOBE index, Java was the most popular programming language in 2007.",
	"eiffel tower height":   "The Eiffel Tower is 330 meters (1,083 feet) tall including antennas.",
	"paris population":      "Paris has a population of approximately 2.2 million people in the city proper.",
	"capital of france":     "The capital of France is Paris.",
}

func registerSearch(r *Registry) error {
	return r.Register(ToolDescriptor{
		Name:        "search",
		Description: "Searches a knowledge base for information about a query.",
		Params: []Param{
			{Name: "query", Kind: KindString, Required: true},
		},
	}, func(_ context.Context, args Args) (string, error) {
		query := strings.ToLower(args.String("query", ""))

		// Sorted keys keep repeated queries deterministic when more than
		// one fact matches.
		keys := make([]string, 0, len(searchFacts))
		for k := range searchFacts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if strings.Contains(query, k) {
				return searchFacts[k], nil
			}
		}
		return fmt.Sprintf("No specific information found for %q. Try rephrasing your search.", query), nil
	})
}

func registerCalculator(r *Registry) error {
	return r.Register(ToolDescriptor{
		Name:        "calculator",
		Description: "Applies an arithmetic operation (add, subtract, multiply, divide) to two numbers.",
		Params: []Param{
			{Name: "operation", Kind: KindString, Required: true},
			{Name: "a", Kind: KindNumber, Required: true},
			{Name: "b", Kind: KindNumber, Required: true},
		},
	}, func(_ context.Context, args Args) (string, error) {
		op := args.String("operation", "")
		a := args.Number("a", 0)
		b := args.Number("b", 0)

		switch op {
		case "add":
			return formatNumber(a + b), nil
		case "subtract":
			return formatNumber(a - b), nil
		case "multiply":
			return formatNumber(a * b), nil
		case "divide":
			if b == 0 {
				return "", fmt.Errorf("division by zero")
			}
			return formatNumber(a / b), nil
		default:
			return "", fmt.Errorf("unknown operation %q; use add, subtract, multiply, or divide", op)
		}
	})
}

func registerCurrentDate(r *Registry) error {
	return r.Register(ToolDescriptor{
		Name:        "current_date",
		Description: "Returns today's date in YYYY-MM-DD form.",
	}, func(_ context.Context, _ Args) (string, error) {
		return time.Now().Format("2006-01-02"), nil
	})
}

func registerWeather(r *Registry) error {
	return r.Register(ToolDescriptor{
		Name:        "weather",
		Description: "Reports current weather for a city (mock data for San Francisco, New York, and London).",
		Params: []Param{
			{Name: "city", Kind: KindString, Required: true},
		},
	}, func(_ context.Context, args Args) (string, error) {
		city := strings.ToLower(args.String("city", ""))
		switch {
		case strings.Contains(city, "san francisco") || strings.Contains(city, "sf"):
			return "It's 65 degrees and sunny in San Francisco. Perfect weather!", nil
		case strings.Contains(city, "new york") || strings.Contains(city, "nyc"):
			return "It's 45 degrees and cloudy in New York. Bring a jacket!", nil
		case strings.Contains(city, "london"):
			return "It's 55 degrees and raining in London. Classic British weather.", nil
		default:
			return fmt.Sprintf("Sorry, no weather data for %s. Try San Francisco, New York, or London.", args.String("city", "")), nil
		}
	})
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
