package advisor

import "google.golang.org/genai"

// Response schemas for the structured report calls. The API enforces
// these server-side, so decoding failures indicate a model/API defect,
// not a formatting accident.

var channelReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"diagnosis":         {Type: genai.TypeString},
		"strengths":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"weaknesses":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"growth_strategies": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"video_ideas":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"diagnosis", "strengths", "weaknesses", "growth_strategies"},
}

var keywordReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"market_overview":  {Type: genai.TypeString},
		"audience_profile": {Type: genai.TypeString},
		"content_angles":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"title_ideas":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"risks":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"market_overview", "audience_profile", "content_angles"},
}

var opportunityReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ocean_type":   {Type: genai.TypeString, Enum: []string{"red", "blue"}},
		"score":        {Type: genai.TypeInteger},
		"verdict":      {Type: genai.TypeString},
		"strategy":     {Type: genai.TypeString},
		"entry_angles": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"ocean_type", "score", "verdict", "strategy"},
}
