package ai

import (
	"context"
	"encoding/json"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/agrimitra/backend/internal/advisory"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/service"
)

// Toolset содержит инструменты агента и диспетчер их вызовов.
type Toolset struct {
	advisor   *advisory.Advisor
	campaigns *service.CampaignService
	bids      *service.BidService
}

// NewToolset создаёт набор инструментов поверх сервисного слоя.
func NewToolset(advisor *advisory.Advisor, campaigns *service.CampaignService, bids *service.BidService) *Toolset {
	return &Toolset{advisor: advisor, campaigns: campaigns, bids: bids}
}

// Declarations возвращает описания инструментов для genai.
func (t *Toolset) Declarations() []*genai.Tool {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	num := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}

	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "recommend_crop",
				Description: "Recommends the top 3 crops for the given soil and weather readings",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"nitrogen":    num("Nitrogen content in soil, kg/ha"),
						"phosphorus":  num("Phosphorus content in soil, kg/ha"),
						"potassium":   num("Potassium content in soil, kg/ha"),
						"temperature": num("Air temperature in Celsius"),
						"humidity":    num("Relative humidity percent"),
						"ph":          num("Soil pH value, 0-14"),
						"rainfall":    num("Expected rainfall in mm"),
					},
					Required: []string{"nitrogen", "phosphorus", "potassium", "ph"},
				},
			},
			{
				Name:        "analyze_crop_health",
				Description: "Diagnoses plant health issues from a text description of symptoms",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symptoms": str("Description of the symptoms, e.g. yellowing leaves, brown spots, wilting"),
					},
					Required: []string{"symptoms"},
				},
			},
			{
				Name:        "get_government_schemes",
				Description: "Lists government support schemes for farmers, optionally filtered by keyword",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": str("Keyword to filter schemes, e.g. insurance, credit. Empty returns all"),
					},
				},
			},
			{
				Name:        "get_npk_guidance",
				Description: "Returns NPK fertilizer requirements and application schedule for a crop",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"crop": str("Crop name, e.g. rice, wheat, potato"),
					},
					Required: []string{"crop"},
				},
			},
			{
				Name:        "get_crop_planning",
				Description: "Returns the season calendar for a crop: sowing window, fertilizer, irrigation, harvest",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"crop": str("Crop name, e.g. wheat, rice, tomato"),
					},
					Required: []string{"crop"},
				},
			},
			{
				Name:        "get_weather",
				Description: "Returns the current weather snapshot for the farmer's region",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
			},
			{
				Name:        "create_campaign",
				Description: "Creates a contract farming campaign so buyers can bid on the harvest",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":            str("Campaign title, e.g. Organic Wheat Harvest 2026"),
						"crop":             str("Crop being offered, e.g. Tomato, Wheat"),
						"cropType":         str("Crop variety or grade, e.g. Heirloom, Basmati"),
						"location":         str("Farm location for pickup or delivery"),
						"duration":         str("Campaign or growing duration, e.g. 4 months"),
						"estimatedYield":   str("Expected harvest quantity, e.g. 50 quintals"),
						"minimumQuotation": str("Minimum acceptable price, e.g. ₹2000 per quintal"),
						"notes":            str("Additional details about the opportunity"),
					},
					Required: []string{"title", "crop", "cropType", "location", "duration", "estimatedYield", "minimumQuotation"},
				},
			},
			{
				Name:        "list_campaigns",
				Description: "Lists contract farming campaigns, optionally filtered by status",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"status": str("Campaign status filter: active, completed or upcoming. Empty returns all"),
					},
				},
			},
			{
				Name:        "submit_bid",
				Description: "Submits a bid on a campaign on behalf of the current user",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"campaignId": str("ID of the campaign to bid on"),
						"bidAmount":  str("Bid amount, e.g. ₹1800 per quintal"),
						"quantity":   str("Quantity the bid covers, e.g. 50 quintals"),
						"notes":      str("Optional message to the other party"),
					},
					Required: []string{"campaignId", "bidAmount", "quantity"},
				},
			},
			{
				Name:        "list_bids",
				Description: "Lists bids, optionally filtered by campaign and status",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"campaignId": str("Campaign ID to filter by"),
						"status":     str("Bid status filter: pending, accepted, rejected or counter_offered"),
					},
				},
			},
			{
				Name:        "apply_bid_action",
				Description: "Accepts, rejects or counter-offers an existing bid",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"bidId":         str("ID of the bid"),
						"action":        str("One of: accept, reject, counter_offer"),
						"counterAmount": str("New amount for counter_offer, e.g. ₹1900 per quintal"),
						"notes":         str("Optional note explaining the decision"),
					},
					Required: []string{"bidId", "action"},
				},
			},
		},
	}}
}

// Dispatch выполняет инструмент по имени. Ошибки возвращаются строкой,
// чтобы модель могла объяснить их пользователю.
func (t *Toolset) Dispatch(ctx context.Context, caller service.Caller, name string, args map[string]any) string {
	switch name {
	case "recommend_crop":
		return t.recommendCrop(ctx, args)
	case "analyze_crop_health":
		return t.analyzeCropHealth(args)
	case "get_government_schemes":
		return toolJSON(t.advisor.Schemes(argString(args, "query")))
	case "get_npk_guidance":
		return toolJSON(t.advisor.NPKPlan(argString(args, "crop")))
	case "get_crop_planning":
		return t.cropPlanning(args)
	case "get_weather":
		return toolJSON(t.advisor.Weather())
	case "create_campaign":
		return t.createCampaign(ctx, caller, args)
	case "list_campaigns":
		return t.listCampaigns(ctx, args)
	case "submit_bid":
		return t.submitBid(ctx, caller, args)
	case "list_bids":
		return t.listBids(ctx, args)
	case "apply_bid_action":
		return t.applyBidAction(ctx, args)
	default:
		return fmt.Sprintf("❌ Unknown tool: %s", name)
	}
}

func (t *Toolset) recommendCrop(ctx context.Context, args map[string]any) string {
	reading := models.SoilReading{
		Nitrogen:    argFloat(args, "nitrogen"),
		Phosphorus:  argFloat(args, "phosphorus"),
		Potassium:   argFloat(args, "potassium"),
		Temperature: argFloat(args, "temperature"),
		Humidity:    argFloat(args, "humidity"),
		PH:          argFloat(args, "ph"),
		Rainfall:    argFloat(args, "rainfall"),
	}
	// Нулевые погодные поля заполняем сводкой, как делает планировщик.
	if reading.Temperature == 0 && reading.Humidity == 0 && reading.Rainfall == 0 {
		weather := t.advisor.Weather()
		reading.Temperature = weather.Temperature
		reading.Humidity = weather.Humidity
		reading.Rainfall = weather.Rainfall
	}

	rec, err := t.advisor.RecommendCrop(ctx, reading)
	if err != nil {
		return fmt.Sprintf("❌ Error recommending crop: %v", err)
	}
	return toolJSON(rec)
}

func (t *Toolset) analyzeCropHealth(args map[string]any) string {
	symptoms := argString(args, "symptoms")
	if symptoms == "" {
		return "❌ Error: symptoms description is required"
	}
	return toolJSON(t.advisor.AnalyzeSymptoms(symptoms))
}

func (t *Toolset) cropPlanning(args map[string]any) string {
	advice, err := t.advisor.Planning(argString(args, "crop"))
	if err != nil {
		return "No specific calendar for this crop. General guidance: kharif (monsoon) suits rice, cotton and sugarcane; " +
			"rabi (winter) suits wheat, barley and mustard; summer needs irrigated fodder or vegetables. " +
			"Advise the farmer to contact the local agricultural extension office for details."
	}
	return toolJSON(advice)
}

func (t *Toolset) createCampaign(ctx context.Context, caller service.Caller, args map[string]any) string {
	minimum := argString(args, "minimumQuotation")
	campaign, err := t.campaigns.CreateCampaign(ctx, service.CreateCampaignInput{
		Title:            argString(args, "title"),
		Crop:             argString(args, "crop"),
		CropType:         argString(args, "cropType"),
		Location:         argString(args, "location"),
		Duration:         argString(args, "duration"),
		EstimatedYield:   argString(args, "estimatedYield"),
		MinimumQuotation: minimum,
		Notes:            argString(args, "notes"),
		CurrentBid:       minimum,
		Status:           models.CampaignStatusActive,
		UserType:         caller.UserType,
		UserID:           caller.ID,
	})
	if err != nil {
		return fmt.Sprintf("❌ Error creating campaign: %v", err)
	}
	return fmt.Sprintf("✅ Successfully created campaign '%s' with ID: %s", campaign.Title, campaign.ID)
}

func (t *Toolset) listCampaigns(ctx context.Context, args map[string]any) string {
	status := argString(args, "status")

	var (
		campaigns []models.Campaign
		err       error
	)
	if status == "" {
		campaigns, err = t.campaigns.ListCampaigns(ctx)
	} else {
		campaigns, err = t.campaigns.ListCampaignsByStatus(ctx, status)
	}
	if err != nil {
		return fmt.Sprintf("❌ Error fetching campaigns: %v", err)
	}
	if len(campaigns) == 0 {
		return "No campaigns found."
	}
	return toolJSON(campaigns)
}

func (t *Toolset) submitBid(ctx context.Context, caller service.Caller, args map[string]any) string {
	bid, message, err := t.bids.SubmitBid(ctx, service.SubmitBidInput{
		CampaignID: argString(args, "campaignId"),
		BidderType: caller.UserType,
		BidderID:   caller.ID,
		BidderName: caller.Name,
		BidAmount:  argString(args, "bidAmount"),
		Quantity:   argString(args, "quantity"),
		Notes:      argString(args, "notes"),
	})
	if err != nil {
		return fmt.Sprintf("❌ Error creating bid: %v", err)
	}
	return fmt.Sprintf("✅ %s (bid ID: %s)", message, bid.ID)
}

func (t *Toolset) listBids(ctx context.Context, args map[string]any) string {
	bids, err := t.bids.ListBids(ctx, repository.BidFilter{
		CampaignID: argString(args, "campaignId"),
		Status:     argString(args, "status"),
	})
	if err != nil {
		return fmt.Sprintf("❌ Error fetching bids: %v", err)
	}
	if len(bids) == 0 {
		return "No bids found."
	}
	return toolJSON(bids)
}

func (t *Toolset) applyBidAction(ctx context.Context, args map[string]any) string {
	_, message, err := t.bids.ApplyBidAction(ctx, argString(args, "bidId"), service.BidActionInput{
		Action:        argString(args, "action"),
		CounterAmount: argString(args, "counterAmount"),
		Notes:         argString(args, "notes"),
	})
	if err != nil {
		return fmt.Sprintf("❌ Error handling bid action: %v", err)
	}
	return fmt.Sprintf("✅ %s", message)
}

// argString достаёт строковый аргумент инструмента.
func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argFloat достаёт числовой аргумент. Модели иногда присылают числа строками.
func argFloat(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		var f float64
		fmt.Sscanf(v, "%f", &f)
		return f
	}
	return 0
}

// toolJSON сериализует результат инструмента в компактный JSON.
func toolJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("❌ Error encoding result: %v", err)
	}
	return string(data)
}
