package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

const payPlanEndpoint = "/Portico.PayPlan.v2/"

var monthlyFrequencies = map[models.ScheduleFrequency]bool{
	models.FrequencyMonthly:      true,
	models.FrequencyBiMonthly:    true,
	models.FrequencyQuarterly:    true,
	models.FrequencySemiAnnually: true,
}

// PayPlanConnector stores customers, payment methods and schedules through
// the recurring billing REST API.
type PayPlanConnector struct {
	client *gatewayClient
}

func NewPayPlanConnector(cfg *config.ServicesConfig, opts ...Option) *PayPlanConnector {
	client := newGatewayClient("payplan", cfg.ServiceURL+payPlanEndpoint, "application/json", cfg.Timeout, buildOptions(opts))
	client.headers["Authorization"] = "Basic " + utils.EncodeString(cfg.SecretAPIKey)
	return &PayPlanConnector{client: client}
}

func (p *PayPlanConnector) SupportsRetrieval() bool            { return true }
func (p *PayPlanConnector) SupportsUpdatePaymentDetails() bool { return false }

func (p *PayPlanConnector) ProcessRecurring(ctx context.Context, b *payment.RecurringBuilder) ([]payment.RecurringEntity, error) {
	endpoint, err := payPlanURL(b)
	if err != nil {
		return nil, err
	}

	request := make(map[string]interface{})
	switch b.TransactionType() {
	case models.Create, models.Edit:
		switch entity := b.Entity().(type) {
		case *payment.Customer:
			buildPayPlanCustomer(request, entity)
		case *payment.RecurringPaymentMethod:
			buildPayPlanPaymentMethod(request, entity, b.TransactionType())
		case *payment.Schedule:
			buildPayPlanSchedule(request, entity, b.TransactionType())
		}
	case models.Search:
		for key, value := range b.SearchCriteria() {
			request[key] = value
		}
	}

	method := payPlanMethod(b.TransactionType())
	var body []byte
	if method != http.MethodGet && method != http.MethodDelete {
		body, err = json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("error encoding recurring request: %w", err)
		}
	}

	raw, err := p.client.doREST(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	return mapPayPlanResponse(raw, b)
}

func payPlanMethod(t models.TransactionType) string {
	switch t {
	case models.Create, models.Search:
		return http.MethodPost
	case models.Edit:
		return http.MethodPut
	case models.Delete:
		return http.MethodDelete
	}
	return http.MethodGet
}

func payPlanURL(b *payment.RecurringBuilder) (string, error) {
	t := b.TransactionType()
	suffix := ""
	if t == models.Fetch || t == models.Delete || t == models.Edit {
		suffix = "/" + b.Key()
	}

	resource := func(plain, search string) string {
		if t == models.Search {
			return search
		}
		return plain
	}

	switch entity := b.Entity().(type) {
	case *payment.Customer:
		return resource("customers", "searchCustomers") + suffix, nil
	case *payment.RecurringPaymentMethod:
		kind := ""
		switch t {
		case models.Create:
			kind = "ACH"
			if isCredit(entity.PaymentMethod) {
				kind = "CreditCard"
			}
		case models.Edit:
			kind = strings.ReplaceAll(entity.PaymentType, " ", "")
		}
		return resource("paymentMethods", "searchPaymentMethods") + kind + suffix, nil
	case *payment.Schedule:
		return resource("schedules", "searchSchedules") + suffix, nil
	}
	return "", models.NewUnsupportedTransactionError("")
}

func buildPayPlanCustomer(request map[string]interface{}, c *payment.Customer) {
	request["customerIdentifier"] = c.ID
	request["firstName"] = c.FirstName
	request["lastName"] = c.LastName
	request["company"] = c.Company
	request["customerStatus"] = c.Status
	request["primaryEmail"] = c.Email
	request["phoneDay"] = c.WorkPhone
	request["phoneEvening"] = c.HomePhone
	request["phoneMobile"] = c.MobilePhone
	request["fax"] = c.Fax
	request["title"] = c.Title
	request["department"] = c.Department
	buildPayPlanAddress(request, c.Address)
}

func buildPayPlanPaymentMethod(request map[string]interface{}, m *payment.RecurringPaymentMethod, t models.TransactionType) {
	request["preferredPayment"] = m.PreferredPayment
	request["paymentMethodIdentifier"] = m.ID
	request["customerKey"] = m.CustomerKey
	request["nameOnAccount"] = m.NameOnAccount
	buildPayPlanAddress(request, m.Address)

	if t != models.Create {
		delete(request, "customerKey")
		request["paymentStatus"] = m.Status
		request["cpcTaxType"] = m.TaxType
		request["expirationDate"] = m.ExpirationDate
		return
	}

	var info map[string]interface{}
	infoKey := ""
	token := tokenOf(m.PaymentMethod)

	switch pm := m.PaymentMethod.(type) {
	case payment.CardData:
		card := pm.Card()
		info = map[string]interface{}{
			"expMon":  card.ExpMonth,
			"expYear": card.ExpYear,
		}
		if token != "" {
			infoKey = "alternateIdentity"
			info["token"] = token
			info["type"] = "SINGLEUSETOKEN"
		} else {
			infoKey = "card"
			info["number"] = card.Number()
		}
		request["cardVerificationValue"] = card.CVN()
	case payment.TrackData:
		track := pm.Track()
		infoKey = "track"
		info = map[string]interface{}{
			"data":          track.Value,
			"dataEntryMode": strings.ToUpper(string(track.EntryMethod)),
		}
	case *payment.ECheck:
		request["achType"] = payPlanAccountType(pm.AccountType)
		request["accountType"] = payPlanCheckType(pm.CheckType)
		request["telephoneIndicator"] = pm.SecCode != models.SecCCD && pm.SecCode != models.SecPPD
		request["routingNumber"] = pm.RoutingNumber
		request["accountNumber"] = pm.AccountNumber
		request["accountHolderYob"] = pm.BirthYear
		request["driversLicenseState"] = pm.DriversLicenseState
		request["driversLicenseNumber"] = pm.DriversLicenseNumber
		request["socialSecurityNumberLast4"] = pm.SsnLast4
		delete(request, "country")
	}

	if enc, ok := m.PaymentMethod.(payment.Encryptable); ok && enc.Encryption() != nil && info != nil {
		info["trackNumber"] = enc.Encryption().TrackNumber
		info["key"] = enc.Encryption().KTB
		info["encryptionType"] = "E3"
	}

	if info != nil {
		request[infoKey] = info
	}
}

func payPlanAccountType(t models.AccountType) interface{} {
	switch t {
	case models.Checking:
		return "Checking"
	case models.Savings:
		return "Savings"
	}
	return nil
}

func payPlanCheckType(t models.CheckType) interface{} {
	switch t {
	case models.CheckPersonal:
		return "Personal"
	case models.CheckBusiness:
		return "Business"
	}
	return nil
}

func buildPayPlanSchedule(request map[string]interface{}, s *payment.Schedule, t models.TransactionType) {
	request["scheduleIdentifier"] = s.ID
	request["scheduleName"] = s.Name
	request["scheduleStatus"] = s.Status
	request["paymentMethodKey"] = s.PaymentKey
	payPlanAmount(request, "subtotalAmount", s.Amount, s.Currency, t)
	payPlanAmount(request, "taxAmount", s.TaxAmount, s.Currency, t)
	request["deviceId"] = s.DeviceID
	request["processingDateInfo"] = payPlanProcessingDate(s)
	payPlanDate(request, "endDate", s.EndDate, t == models.Edit)

	reprocessing := 3
	if s.ReprocessingCount != nil {
		reprocessing = *s.ReprocessingCount
	}
	request["reprocessingCount"] = reprocessing
	request["emailReceipt"] = s.EmailReceipt
	request["emailAdvanceNotice"] = "No"
	if s.EmailNotification {
		request["emailAdvanceNotice"] = "Yes"
	}
	request["invoiceNbr"] = s.InvoiceNumber
	request["poNumber"] = s.PONumber
	request["description"] = s.Description
	request["numberOfPayments"] = s.NumberOfPayments

	if t == models.Create {
		request["customerKey"] = s.CustomerKey
	}
	if t == models.Create || !s.HasStarted {
		payPlanDate(request, "startDate", s.StartDate, false)
		request["frequency"] = s.Frequency
		request["duration"] = payPlanDuration(s)
		return
	}
	payPlanDate(request, "cancellationDate", s.CancellationDate, false)
	payPlanDate(request, "nextProcressingDate", s.NextProcessingDate, false)
}

func payPlanDuration(s *payment.Schedule) string {
	switch {
	case s.NumberOfPayments != nil:
		return "Limited Number"
	case s.EndDate != nil:
		return "End Date"
	}
	return "Ongoing"
}

// payPlanProcessingDate is First, Last or a day of the month for monthly
// style frequencies. Days past the 28th run on the last day.
func payPlanProcessingDate(s *payment.Schedule) interface{} {
	if monthlyFrequencies[s.Frequency] {
		switch s.PaymentSchedule {
		case models.ScheduleFirstDayOfTheMonth:
			return "First"
		case models.ScheduleLastDayOfTheMonth:
			return "Last"
		}
		if s.StartDate == nil {
			return nil
		}
		if day := s.StartDate.Day(); day <= 28 {
			return strconv.Itoa(day)
		}
		return "Last"
	}
	if s.Frequency == models.FrequencySemiMonthly {
		if s.PaymentSchedule == models.ScheduleLastDayOfTheMonth {
			return "Last"
		}
		return "First"
	}
	return nil
}

func payPlanDate(request map[string]interface{}, name string, date *time.Time, force bool) {
	switch {
	case date != nil:
		request[name] = utils.FormatScheduleDate(*date)
	case force:
		request[name] = nil
	}
}

func payPlanAmount(request map[string]interface{}, name string, amount *decimal.Decimal, currency string, t models.TransactionType) {
	if amount == nil {
		return
	}
	value := map[string]interface{}{"value": utils.ToMinorUnits(*amount)}
	if t == models.Create {
		value["currency"] = currency
	}
	request[name] = value
}

func buildPayPlanAddress(request map[string]interface{}, a *models.Address) {
	if a == nil {
		return
	}
	request["addressLine1"] = a.StreetAddress1
	request["addressLine2"] = a.StreetAddress2
	request["city"] = a.City
	request["country"] = a.Country()
	request["stateProvince"] = a.State()
	request["zipPostalCode"] = a.PostalCode
}

// payPlanRecord is a decoded response object. Scalars arrive as strings,
// numbers or booleans depending on the field.
type payPlanRecord map[string]interface{}

func (r payPlanRecord) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (r payPlanRecord) amount(key string) (*decimal.Decimal, string) {
	nested, ok := r[key].(map[string]interface{})
	if !ok {
		return nil, ""
	}
	rec := payPlanRecord(nested)
	value, err := utils.FromMinorUnits(rec.str("value"))
	if err != nil {
		return nil, rec.str("currency")
	}
	return &value, rec.str("currency")
}

func (r payPlanRecord) integer(key string) *int {
	v, err := strconv.Atoi(r.str(key))
	if err != nil {
		return nil
	}
	return &v
}

func (r payPlanRecord) address() *models.Address {
	a := &models.Address{
		StreetAddress1: r.str("addressLine1"),
		StreetAddress2: r.str("addressLine2"),
		City:           r.str("city"),
		Province:       r.str("stateProvince"),
		PostalCode:     r.str("zipPostalCode"),
	}
	a.SetCountry(r.str("country"))
	return a
}

func mapPayPlanResponse(raw []byte, b *payment.RecurringBuilder) ([]payment.RecurringEntity, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var hydrate func(payPlanRecord) payment.RecurringEntity
	switch b.Entity().(type) {
	case *payment.Customer:
		hydrate = hydratePayPlanCustomer
	case *payment.RecurringPaymentMethod:
		hydrate = hydratePayPlanPaymentMethod
	case *payment.Schedule:
		hydrate = hydratePayPlanSchedule
	default:
		return nil, models.NewUnsupportedTransactionError("")
	}

	if b.TransactionType() == models.Search {
		var page struct {
			Results []payPlanRecord `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, models.NewGatewayError("Unexpected Response", fmt.Errorf("error decoding response: %w", err))
		}
		out := make([]payment.RecurringEntity, 0, len(page.Results))
		for _, rec := range page.Results {
			out = append(out, hydrate(rec))
		}
		return out, nil
	}

	var rec payPlanRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, models.NewGatewayError("Unexpected Response", fmt.Errorf("error decoding response: %w", err))
	}
	return []payment.RecurringEntity{hydrate(rec)}, nil
}

func hydratePayPlanCustomer(r payPlanRecord) payment.RecurringEntity {
	c := &payment.Customer{
		Title:       r.str("title"),
		FirstName:   r.str("firstName"),
		LastName:    r.str("lastName"),
		Company:     r.str("company"),
		Address:     r.address(),
		HomePhone:   r.str("phoneEvening"),
		WorkPhone:   r.str("phoneDay"),
		Fax:         r.str("fax"),
		MobilePhone: r.str("phoneMobile"),
		Email:       r.str("primaryEmail"),
		Department:  r.str("department"),
		Status:      r.str("customerStatus"),
	}
	c.Key = r.str("customerKey")
	c.ID = r.str("customerIdentifier")
	return c
}

func hydratePayPlanPaymentMethod(r payPlanRecord) payment.RecurringEntity {
	m := &payment.RecurringPaymentMethod{
		Address:             r.address(),
		CommercialIndicator: r.str("commercialIndicator"),
		CustomerKey:         r.str("customerKey"),
		ExpirationDate:      r.str("expirationDate"),
		NameOnAccount:       r.str("nameOnAccount"),
		PaymentType:         r.str("paymentMethodType"),
		PreferredPayment:    r.str("preferredPayment") == "true",
		Status:              r.str("paymentStatus"),
		TaxType:             r.str("taxType"),
	}
	m.Key = r.str("paymentMethodKey")
	m.ID = r.str("paymentMethodIdentifier")
	return m
}

func hydratePayPlanSchedule(r payPlanRecord) payment.RecurringEntity {
	s := &payment.Schedule{
		CustomerKey:        r.str("customerKey"),
		Description:        r.str("description"),
		DeviceID:           r.str("deviceId"),
		EmailNotification:  r.str("emailNotification") == "Yes",
		EmailReceipt:       models.EmailReceipt(r.str("emailReceipt")),
		EndDate:            utils.ParseScheduleDate(r.str("endDate")),
		Frequency:          models.ScheduleFrequency(r.str("frequency")),
		HasStarted:         r.str("scheduleStarted") == "true",
		InvoiceNumber:      r.str("invoiceNbr"),
		Name:               r.str("scheduleName"),
		NextProcessingDate: utils.ParseScheduleDate(r.str("nextProcessingDate")),
		CancellationDate:   utils.ParseScheduleDate(r.str("cancellationDate")),
		PONumber:           r.str("poNumber"),
		PaymentKey:         r.str("paymentMethodKey"),
		ReprocessingCount:  r.integer("reprocessingCount"),
		StartDate:          utils.ParseScheduleDate(r.str("startDate")),
		Status:             r.str("scheduleStatus"),
	}
	s.Key = r.str("scheduleKey")
	s.ID = r.str("scheduleIdentifier")
	s.Amount, s.Currency = r.amount("subtotalAmount")
	s.TaxAmount, _ = r.amount("taxAmount")

	switch r.str("processingDateInfo") {
	case "Last":
		s.PaymentSchedule = models.ScheduleLastDayOfTheMonth
	case "First":
		s.PaymentSchedule = models.ScheduleFirstDayOfTheMonth
	default:
		s.PaymentSchedule = models.ScheduleDynamic
	}
	return s
}
