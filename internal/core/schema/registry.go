// Package schema holds the immutable per-type field definitions. The registry
// is built once at process start and is the only process-wide state.
package schema

import (
	"fmt"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

type Registry struct {
	defs  map[domain.DocumentType]domain.Definition
	order []domain.DocumentType
}

// NewRegistry builds the registry with every supported document type. The
// "unknown" sentinel is deliberately not registered: it never has an
// extractor.
func NewRegistry() *Registry {
	r := &Registry{defs: map[domain.DocumentType]domain.Definition{}}
	for _, def := range definitions() {
		r.defs[def.Type] = def
		r.order = append(r.order, def.Type)
	}
	return r
}

// Lookup resolves a document type to its definition in constant time.
func (r *Registry) Lookup(t domain.DocumentType) (domain.Definition, error) {
	def, ok := r.defs[t]
	if !ok {
		return domain.Definition{}, domain.WrapError(domain.ErrUnsupportedType, "schema lookup", fmt.Errorf("no definition registered for %q", t))
	}
	return def, nil
}

// Types enumerates registered types in registration order.
func (r *Registry) Types() []domain.DocumentType {
	out := make([]domain.DocumentType, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptions returns the classifier-facing one-liner for each registered
// type, keyed by type.
func (r *Registry) Descriptions() map[domain.DocumentType]string {
	out := make(map[domain.DocumentType]string, len(r.order))
	for t, def := range r.defs {
		out[t] = def.Description
	}
	return out
}

func definitions() []domain.Definition {
	return []domain.Definition{
		{
			Type:        domain.TypePANCard,
			DisplayName: "Indian PAN card",
			Description: "Indian PAN (Permanent Account Number) card",
			Fields: []domain.FieldSpec{
				{Name: "name", Kind: domain.KindText,
					Location: `Look for the "Name" or "नाम" label`,
					Format:   "Full name in English or Hindi"},
				{Name: "father_name", Kind: domain.KindText,
					Location: `Look for the "Father's Name" or "पिता का नाम" label`,
					Format:   "Full name in English or Hindi"},
				{Name: "date_of_birth", Kind: domain.KindDate,
					Location: `Look for the "Date of Birth" or "जन्म तिथि" label`,
					Format:   "DD/MM/YYYY"},
				{Name: "pan_number", Kind: domain.KindText,
					Location: `Look for the "Permanent Account Number" or "पैन नंबर" label`,
					Format:   "5 letters + 4 digits + 1 letter (e.g., ABCDE1234F)"},
				{Name: "signature_present", Kind: domain.KindFlag,
					Location: "Check whether a signature is visible on the card",
					Format:   "true/false"},
			},
		},
		{
			Type:        domain.TypeAadhaarCard,
			DisplayName: "Indian Aadhaar card",
			Description: "Indian Aadhaar card (national ID)",
			Fields: []domain.FieldSpec{
				{Name: "name", Kind: domain.KindText,
					Location: `Look for the "Name" or "नाम" label`,
					Format:   "Full name in English or Hindi"},
				{Name: "date_of_birth", Kind: domain.KindDate,
					Location: `Look for the "Date of Birth" or "जन्म तिथि" label`,
					Format:   "DD/MM/YYYY"},
				{Name: "gender", Kind: domain.KindText,
					Location: `Look for the "Gender" or "लिंग" label`,
					Format:   "Single character (M/F/T)"},
				{Name: "aadhaar_number", Kind: domain.KindText,
					Location: `Look for the "Aadhaar No." or "आधार नंबर" label`,
					Format:   "12-digit number, often grouped in fours"},
				{Name: "address", Kind: domain.KindText,
					Location: `Look for the "Address" or "पता" section`,
					Format:   "Multi-line text with house/street, locality, city, state and PIN code"},
			},
		},
		{
			Type:        domain.TypeDrivingLicense,
			DisplayName: "Indian driving license",
			Description: "Indian driving license",
			Fields: []domain.FieldSpec{
				{Name: "dl_number", Kind: domain.KindText,
					Location: `Look for the "DL No." or "डीएल नंबर" label`,
					Format:   "State code + 2 digits + 4 digits + 7 digits (e.g., DL-0120160000000)"},
				{Name: "name", Kind: domain.KindText,
					Location: `Look for the "Name" or "नाम" label`,
					Format:   "Full name in English or Hindi"},
				{Name: "date_of_birth", Kind: domain.KindDate,
					Location: `Look for the "Date of Birth" or "जन्म तिथि" label`,
					Format:   "DD/MM/YYYY"},
				{Name: "issue_date", Kind: domain.KindDate,
					Location: `Look for "Issue Date" or "जारी करने की तिथि"`,
					Format:   "DD/MM/YYYY"},
				{Name: "expiry_date", Kind: domain.KindDate,
					Location: `Look for "Valid Until" or "मान्यता की अवधि"`,
					Format:   "DD/MM/YYYY"},
				{Name: "swd", Kind: domain.KindText,
					Location: `Look for the "Son/Wife/Daughter of" or "S/W/D" label`,
					Format:   "Full name of the relative"},
				{Name: "address", Kind: domain.KindText,
					Location: `Look for the "Address" or "पता" section`,
					Format:   "Multi-line text with house/street, locality, city, state and PIN code"},
				{Name: "authorization_to_drive", Kind: domain.KindStringList,
					Location: `Look for the "Vehicle Class" or "वाहन श्रेणी" section`,
					Format:   `List of vehicle categories (e.g., ["MCWG", "LMV"])`},
			},
		},
		{
			Type:        domain.TypeRentalAgreement,
			DisplayName: "rental agreement",
			Description: "Rental or lease agreement document",
			Fields: []domain.FieldSpec{
				{Name: "tenant_name", Kind: domain.KindText,
					Location: `Look for the "Tenant", "Lessee", or "Renter" section`,
					Format:   "Full name of the tenant"},
				{Name: "tenant_address", Kind: domain.KindText,
					Location: "Look for the tenant's address near the tenant section",
					Format:   "Complete address with street, city, state and PIN code"},
				{Name: "property_owner_name", Kind: domain.KindText,
					Location: `Look for the "Landlord", "Lessor", or "Owner" section`,
					Format:   "Full name of the property owner"},
				{Name: "property_owner_address", Kind: domain.KindText,
					Location: "Look for the owner's address near the landlord section",
					Format:   "Complete address with street, city, state and PIN code"},
				{Name: "property_address", Kind: domain.KindText,
					Location: `Look for the "Property Address" or "Premises" section`,
					Format:   "Complete address of the rented property"},
				{Name: "rent_amount", Kind: domain.KindAmount,
					Location: `Look for the "Rent", "Monthly Rent", or "Rental Amount" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹15,000")`},
				{Name: "deposit_amount", Kind: domain.KindAmount,
					Location: `Look for the "Security Deposit", "Deposit", or "Advance" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹30,000")`},
				{Name: "lease_period", Kind: domain.KindText,
					Location: `Look for the "Lease Period", "Term", or "Duration" section`,
					Format:   `Duration text (e.g., "11 months")`},
				{Name: "lease_start_date", Kind: domain.KindDate,
					Location: `Look for "Commencement Date", "Start Date", or "From Date"`,
					Format:   "DD/MM/YYYY"},
				{Name: "lease_end_date", Kind: domain.KindDate,
					Location: `Look for "End Date", "Termination Date", or "Till Date"`,
					Format:   "DD/MM/YYYY"},
				{Name: "notary_present", Kind: domain.KindFlag,
					Location: "Check whether a notary seal or stamp is visible",
					Format:   "true/false"},
				{Name: "owner_signature_present", Kind: domain.KindFlag,
					Location: "Check whether the owner's signature is visible",
					Format:   "true/false"},
				{Name: "tenant_signature_present", Kind: domain.KindFlag,
					Location: "Check whether the tenant's signature is visible",
					Format:   "true/false"},
			},
		},
		{
			Type:        domain.TypeProformaInvoice,
			DisplayName: "vehicle proforma invoice",
			Description: "Vehicle proforma invoice",
			Fields: []domain.FieldSpec{
				{Name: "manufacturer", Kind: domain.KindText,
					Location: "Look for the manufacturer name in the header or vehicle section",
					Format:   `Company name (e.g., "Maruti Suzuki")`},
				{Name: "vehicle_model", Kind: domain.KindText,
					Location: `Look for the "Vehicle Model", "Model", or "Car Model" section`,
					Format:   `Full model name (e.g., "Swift")`},
				{Name: "vehicle_variant", Kind: domain.KindText,
					Location: `Look for the "Variant" or trim level next to the model`,
					Format:   `Variant code (e.g., "VXI")`},
				{Name: "vehicles_required", Kind: domain.KindText,
					Location: `Look for "Quantity" or "No. of Vehicles"`,
					Format:   "Positive integer"},
				{Name: "ex_showroom_price", Kind: domain.KindAmount,
					Location: `Look for the "Ex-Showroom Price" or "Base Price" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹5,50,000")`},
				{Name: "insurance_price", Kind: domain.KindAmount,
					Location: `Look for the "Insurance" or "Insurance Premium" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹35,000")`},
				{Name: "registration_charges", Kind: domain.KindAmount,
					Location: `Look for the "Registration Charges" or "RTO Charges" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹25,000")`},
				{Name: "total_on_road_price", Kind: domain.KindAmount,
					Location: `Look for the "Total On-Road Price" or "Final Price" section`,
					Format:   `Numeric value with currency symbol (e.g., "₹6,10,000")`},
			},
		},
		{
			Type:        domain.TypeUtilityBill,
			DisplayName: "utility bill",
			Description: "Utility bill (electricity, water, gas, telephone, broadband)",
			Fields: []domain.FieldSpec{
				{Name: "customer_name", Kind: domain.KindText,
					Location: `Look for the "Customer Name" or "Bill To" section`,
					Format:   "Full name of the customer"},
				{Name: "bill_type", Kind: domain.KindText,
					Location: "Look for the bill kind in the header",
					Format:   `Bill kind (e.g., "Electricity Bill")`},
				{Name: "document_date", Kind: domain.KindDate,
					Location: `Look for "Bill Date" or "Date of Issue"`,
					Format:   "DD/MM/YYYY"},
				{Name: "bill_provider", Kind: domain.KindText,
					Location: "Look for the company name in the header or logo area",
					Format:   `Name of the utility company (e.g., "BSES Rajdhani Power Limited")`},
				{Name: "bill_amount", Kind: domain.KindAmount,
					Location: `Look for "Amount Due", "Total Amount", or "Payable"`,
					Format:   `Numeric value with currency symbol (e.g., "₹2,450")`},
				{Name: "customer_address", Kind: domain.KindText,
					Location: `Look for the "Customer Address" or "Service Address" section`,
					Format:   "Complete address with street, city, state and PIN code"},
				{Name: "utility_type", Kind: domain.KindText,
					Location: "Infer from the provider and bill contents",
					Format:   "One of electricity, water, gas, telephone, broadband"},
			},
		},
		{
			Type:        domain.TypeBankStatement,
			DisplayName: "bank statement",
			Description: "Bank account statement with transactions",
			Fields: []domain.FieldSpec{
				{Name: "account_holder_name", Kind: domain.KindText,
					Location: `Look for the "Account Holder" or "Customer Name" section`,
					Format:   "Full name of the account holder"},
				{Name: "account_holder_address", Kind: domain.KindText,
					Location: "Look for the mailing address under the account holder name",
					Format:   "Complete address with street, city, state and PIN code"},
				{Name: "bank_name", Kind: domain.KindText,
					Location: "Look for the bank name in the header or logo area",
					Format:   `Name of the bank (e.g., "HDFC Bank", "State Bank of India")`},
				{Name: "account_number", Kind: domain.KindText,
					Location: `Look for "Account No.", "A/C No.", or "Account Number"`,
					Format:   "Numeric identifier, possibly partially masked"},
				{Name: "transactions", Kind: domain.KindTransactionList,
					Location: "Read every row of the transaction table",
					Format:   "date, description, amount, direction (debit/credit), running balance"},
			},
		},
	}
}
