package payment

import "strings"

type Method string

const (
	MethodTelegraphicTransfer Method = "TT"
	MethodLetterOfCredit      Method = "LC"
	MethodCashAgainstDocs     Method = "CAD"
	MethodCashOnDelivery      Method = "COD"
)

func (m Method) IsValid() bool {
	_, ok := instructionMap[m]
	return ok
}

var instructionMap = map[Method][]string{
	MethodTelegraphicTransfer: {
		"Transfer {{amount}} to the bank account shown on the proforma invoice",
		"Quote the order number {{reference}} in the transfer details",
		"Email the bank slip to your account manager",
		"Goods are released once the transfer is confirmed",
	},
	MethodLetterOfCredit: {
		"Ask your bank to open an irrevocable letter of credit for {{amount}}",
		"Name order {{reference}} and our company as beneficiary",
		"Send the draft LC for review before issuance",
	},
	MethodCashAgainstDocs: {
		"Shipping documents for order {{reference}} are sent through our bank",
		"Pay {{amount}} to your bank to release the documents",
		"Use the released documents to clear the goods",
	},
	MethodCashOnDelivery: {
		"Prepare {{amount}} for payment when order {{reference}} arrives",
		"Pay the carrier and keep the receipt",
	},
}

// Instructions returns the settlement steps for method, or a generic step
// for unknown methods.
func Instructions(method Method) []string {
	if steps, ok := instructionMap[method]; ok {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
	return []string{
		"Your account manager will contact you with payment details for order {{reference}}",
	}
}

type InstructionVars map[string]string

// InjectVariables replaces {{key}} placeholders. Unknown placeholders are
// left as they are.
func InjectVariables(steps []string, vars InstructionVars) []string {
	result := make([]string, 0, len(steps))
	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(updated, "{{"+key+"}}", value)
		}
		result = append(result, updated)
	}
	return result
}

// Render is Instructions with the order reference and amount filled in.
func Render(method Method, reference, amount string) []string {
	return InjectVariables(Instructions(method), InstructionVars{
		"reference": reference,
		"amount":    amount,
	})
}
