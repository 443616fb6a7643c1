package classify

import (
	"fmt"
	"time"
)

// Input carries everything the classifier sees for one message.
type Input struct {
	Text      string
	Subject   string
	Sender    string
	Timestamp time.Time
}

const promptTemplate = `Analyze this email text and extract ALL coupon/promotional offer information.

Email Sender: %s
Email Subject: %s
Email Date: %s
Email text:
%s

IMPORTANT INSTRUCTIONS:
- If the email contains actionable promotional offers, coupons, discounts, or deals, return a JSON object with "has_offer": true and "offers" as a non-empty list.
- If the email contains NO actionable offer, return exactly: {"has_offer": false}
- Purely informational mail (announcements, newsletters, order confirmations, surveys) has NO offer even if promotional in tone. Return {"has_offer": false} for such mail.

OFFER TYPE DEFINITIONS (offer_type MUST be exactly one of these six):
- discount: percentage or dollar amount off. REQUIRES discount_amount, plus either a coupon_code or a clear call_to_action.
- coupon: a specific promotional code. REQUIRES coupon_code.
- free_shipping: free shipping, free delivery, free returns.
- bogo: buy one get one free/half off, buy X get Y free.
- free_gift: gift with purchase, free samples, free trials.
- loyalty_points: points, stars, rewards program benefits.

EXPIRY DATE RULES:
- Explicit date mentioned: emit it as YYYY-MM-DD and set expiry_inferred to false.
- Temporal keyword without an explicit date ("Today Only", "Flash Sale", "Summer Sale", "Limited Time"): emit a short descriptive phrase such as "Summer %d" or "Limited Time" and set expiry_inferred to true. Use the email date above as the reference year.
- No temporal signal at all: set expiry_date to null and expiry_inferred to false.

Return a JSON response with this structure for emails WITH offers:
{
  "has_offer": true,
  "sender_company": "company sending the email, extracted from the sender",
  "offers": [
    {
      "offer_brand": "brand this specific offer is for (may differ from sender for aggregators)",
      "offer_type": "one of: discount, coupon, free_shipping, bogo, free_gift, loyalty_points",
      "discount_amount": "specific amount only (e.g. '20%%', '$10'), null if unclear",
      "coupon_code": "exact promotional code if present, null if none",
      "expiry_date": "YYYY-MM-DD, a descriptive phrase, or null per the rules above",
      "expiry_inferred": false,
      "offer_title": "main headline of the offer, concise",
      "offer_description": "brief description of what is offered",
      "minimum_purchase": "minimum spend requirement (e.g. '$50'), null if none",
      "terms_conditions": "important restrictions only, null if none",
      "call_to_action": "primary action requested (Shop Now, Use Code, Sign Up)"
    }
  ]
}

For emails WITHOUT offers:
{"has_offer": false}

Create a separate offer object for each distinct promotion. Only include information explicitly stated or clearly implied in the email.`

// BuildPrompt renders the single classification request for a message.
func BuildPrompt(in Input) string {
	return fmt.Sprintf(promptTemplate,
		in.Sender,
		in.Subject,
		in.Timestamp.Format("2006-01-02"),
		in.Text,
		in.Timestamp.Year(),
	)
}
