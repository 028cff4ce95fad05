package partnercenter

import (
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/resource"
)

// Object types reported in attributes.objectType.
const (
	ObjectTypeOffer            = "Offer"
	ObjectTypeInvoice          = "Invoice"
	ObjectTypeCustomer         = "Customer"
	ObjectTypeSubscribedSku    = "SubscribedSku"
	ObjectTypeManagedService   = "ManagedService"
	ObjectTypeValidationStatus = "ValidationStatus"
)

// OfferCategory groups offers in the catalog.
type OfferCategory struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rank    int    `json:"rank"`
	Locale  string `json:"locale,omitempty"`
	Country string `json:"country,omitempty"`
}

// Product is the product an offer sells.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
}

// Offer is a purchasable catalog item.
type Offer struct {
	resource.Resource

	ID                     string        `json:"id"`
	Name                   string        `json:"name"`
	Description            string        `json:"description,omitempty"`
	MinimumQuantity        int           `json:"minimumQuantity"`
	MaximumQuantity        int           `json:"maximumQuantity"`
	Rank                   int           `json:"rank"`
	URI                    string        `json:"uri,omitempty"`
	Locale                 string        `json:"locale,omitempty"`
	Country                string        `json:"country,omitempty"`
	Category               OfferCategory `json:"category"`
	PrerequisiteOffers     []string      `json:"prerequisiteOffers,omitempty"`
	IsAddOn                bool          `json:"isAddOn"`
	IsAvailableForPurchase bool          `json:"isAvailableForPurchase"`
	IsAutoRenewable        bool          `json:"isAutoRenewable"`
	Billing                string        `json:"billing,omitempty"`
	Product                Product       `json:"product"`
	UnitType               string        `json:"unitType,omitempty"`
}

// Invoice is a partner invoice.
type Invoice struct {
	resource.Resource

	ID                     string    `json:"id"`
	InvoiceDate            time.Time `json:"invoiceDate"`
	BillingPeriodStartDate time.Time `json:"billingPeriodStartDate"`
	BillingPeriodEndDate   time.Time `json:"billingPeriodEndDate"`
	TotalCharges           float64   `json:"totalCharges"`
	PaidAmount             float64   `json:"paidAmount"`
	CurrencyCode           string    `json:"currencyCode"`
	CurrencySymbol         string    `json:"currencySymbol,omitempty"`
	PdfDownloadLink        string    `json:"pdfDownloadLink,omitempty"`
	InvoiceType            string    `json:"invoiceType,omitempty"`
	DocumentType           string    `json:"documentType,omitempty"`
	AmendsOf               string    `json:"amendsOf,omitempty"`
}

// CompanyProfile describes a customer tenant.
type CompanyProfile struct {
	TenantID    string `json:"tenantId"`
	Domain      string `json:"domain"`
	CompanyName string `json:"companyName"`
}

// Customer is a customer of the partner.
type Customer struct {
	resource.Resource

	ID                    string         `json:"id"`
	CommerceID            string         `json:"commerceId,omitempty"`
	CompanyProfile        CompanyProfile `json:"companyProfile"`
	RelationshipToPartner string         `json:"relationshipToPartner,omitempty"`
}

// ProductSku identifies a licensed SKU.
type ProductSku struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SkuPartNumber  string `json:"skuPartNumber"`
	TargetType     string `json:"targetType,omitempty"`
	LicenseGroupID string `json:"licenseGroupId,omitempty"`
}

// ServicePlan is a service included in a subscribed SKU.
type ServicePlan struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ServiceName      string `json:"serviceName"`
	CapabilityStatus string `json:"capabilityStatus"`
	TargetType       string `json:"targetType,omitempty"`
}

// SubscribedSku is a SKU a customer holds licenses for.
type SubscribedSku struct {
	resource.Resource

	AvailableUnits   int           `json:"availableUnits"`
	ActiveUnits      int           `json:"activeUnits"`
	ConsumedUnits    int           `json:"consumedUnits"`
	SuspendedUnits   int           `json:"suspendedUnits"`
	TotalUnits       int           `json:"totalUnits"`
	WarningUnits     int           `json:"warningUnits"`
	CapabilityStatus string        `json:"capabilityStatus"`
	ProductSku       ProductSku    `json:"productSku"`
	ServicePlans     []ServicePlan `json:"servicePlans,omitempty"`
}

// ManagedService is a service the partner administers for a customer.
type ManagedService struct {
	resource.Resource

	ID               string `json:"id"`
	Name             string `json:"name"`
	GroupID          string `json:"groupId,omitempty"`
	AdminServiceURL  string `json:"adminServiceUrl,omitempty"`
	ServiceHealthURL string `json:"serviceHealthUrl,omitempty"`
}

// ValidationStatus is the outcome of a customer validation.
type ValidationStatus struct {
	resource.Resource

	CustomerID         string    `json:"customerId"`
	ValidationType     string    `json:"validationType"`
	Status             string    `json:"status"`
	LastUpdateDateTime time.Time `json:"lastUpdateDateTime"`
}
