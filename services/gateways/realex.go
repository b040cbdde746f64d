package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// RealexConnector talks to the signed XML API. Every request carries a
// SHA-1 signature built from the shared secret.
type RealexConnector struct {
	config *config.ServicesConfig
	client *gatewayClient
}

func NewRealexConnector(cfg *config.ServicesConfig, opts ...Option) *RealexConnector {
	return &RealexConnector{
		config: cfg,
		client: newGatewayClient("realex", cfg.ServiceURL, "text/xml; charset=UTF-8", cfg.Timeout, buildOptions(opts)),
	}
}

func (r *RealexConnector) SupportsHostedPayments() bool       { return true }
func (r *RealexConnector) SupportsRetrieval() bool            { return false }
func (r *RealexConnector) SupportsUpdatePaymentDetails() bool { return true }

func (r *RealexConnector) ProcessReport(context.Context, *payment.TransactionReportBuilder) ([]*models.TransactionSummary, error) {
	return nil, models.NewUnsupportedTransactionError("Reporting functionality is not supported through this gateway.")
}

func (r *RealexConnector) ProcessAuthorization(ctx context.Context, b *payment.AuthorizationBuilder) (*payment.Transaction, error) {
	requestType, err := realexAuthType(b)
	if err != nil {
		return nil, err
	}
	timestamp := orDefault(b.Timestamp(), utils.GenerateTimestamp)
	orderID := orDefault(b.OrderID(), utils.GenerateOrderID)
	amount := ""
	if b.Amount() != nil {
		amount = utils.ToMinorUnits(*b.Amount())
	}

	request := r.newRequest(timestamp, requestType, orderID)
	if b.Amount() != nil {
		el := request.value("amount", amount)
		if b.Currency() != "" {
			el.set("currency", b.Currency())
		}
	}

	switch pm := b.PaymentMethod().(type) {
	case *payment.CreditCardData:
		card := request.sub("card")
		card.value("number", pm.Number())
		card.value("expdate", pm.ShortExpiry())
		card.optional("chname", pm.CardHolderName)
		card.value("type", strings.ToUpper(pm.CardType))
		if pm.CVN() != "" {
			cvn := card.sub("cvn")
			cvn.value("number", pm.CVN())
			cvn.value("presind", strconv.Itoa(int(pm.CvnPresenceIndicator)))
		}

		if tds := pm.ThreeDSecure; tds != nil {
			mpi := request.sub("mpi")
			mpi.optional("cavv", tds.Cavv)
			mpi.optional("xid", tds.Xid)
			mpi.optional("eci", tds.Eci)
		}

		request.value("sha1hash", r.authHash(b, timestamp, orderID, amount, pm.Number()))

	case *payment.RecurringPaymentMethod:
		request.value("payerref", pm.CustomerKey)
		request.value("paymentmethod", orDefault(pm.Key, func() string { return pm.ID }))
		if b.CVN() != "" {
			request.sub("paymentdata").sub("cvn").value("number", b.CVN())
		}
		request.value("sha1hash", r.authHash(b, timestamp, orderID, amount, pm.CustomerKey))
	}

	if b.TransactionType() == models.Refund {
		request.value("refundhash", passwordHash(r.config.RefundPassword))
	}

	switch b.TransactionType() {
	case models.Sale:
		request.sub("autosettle", "flag", "1")
	case models.Auth:
		request.sub("autosettle", "flag", "0")
	}

	if b.Description() != "" {
		request.sub("comments").value("comment", b.Description()).set("id", "1")
	}

	if b.RecurringType() != "" || b.RecurringSequence() != "" {
		request.sub("recurring",
			"type", strings.ToLower(string(b.RecurringType())),
			"sequence", strings.ToLower(string(b.RecurringSequence())))
	}

	if b.CustomerID() != "" || b.ProductID() != "" || b.CustomerIPAddress() != "" ||
		b.ClientTransactionID() != "" || b.BillingAddress() != nil || b.ShippingAddress() != nil {
		tss := request.sub("tssinfo")
		tss.optional("custnum", b.CustomerID())
		tss.optional("prodid", b.ProductID())
		tss.optional("varref", b.ClientTransactionID())
		tss.optional("custipaddress", b.CustomerIPAddress())
		tss.append(realexAddress(b.BillingAddress()))
		tss.append(realexAddress(b.ShippingAddress()))
	}

	raw, err := r.client.doXML(ctx, request)
	if err != nil {
		return nil, err
	}
	return mapRealexResponse(raw, realexAcceptedCodes(requestType))
}

// authHash signs an authorization. Verifies leave out the amount and currency;
// otherwise a missing currency signs as an empty field.
func (r *RealexConnector) authHash(b *payment.AuthorizationBuilder, timestamp, orderID, amount, subject string) string {
	if b.TransactionType() == models.Verify {
		return utils.GenerateHash(r.config.SharedSecret, timestamp, r.config.MerchantID, orderID, subject)
	}
	return utils.GenerateHash(r.config.SharedSecret,
		timestamp, r.config.MerchantID, orderID, amount, b.Currency(), subject)
}

func (r *RealexConnector) ManageTransaction(ctx context.Context, b *payment.ManagementBuilder) (*payment.Transaction, error) {
	requestType := realexManageType(b.TransactionType())
	timestamp := utils.GenerateTimestamp()
	orderID := orDefault(b.OrderID(), utils.GenerateOrderID)

	request := r.newRequest(timestamp, requestType, orderID)
	request.value("pasref", b.TransactionID())

	amount := ""
	if b.Amount() != nil {
		amount = utils.ToMinorUnits(*b.Amount())
		el := request.value("amount", amount)
		if b.Currency() != "" {
			el.set("currency", b.Currency())
		}
	} else if b.TransactionType() == models.Capture {
		return nil, models.NewBuilderError("Amount cannot be null for Capture.")
	}

	if b.TransactionType() == models.VerifySignature {
		request.value("payres", b.PayerAuthenticationResponse())
	}

	if b.TransactionType() == models.Refund {
		request.value("authcode", b.AuthorizationCode())
		request.value("refundhash", passwordHash(r.config.RebatePassword))
	}

	request.optional("reasoncode", string(b.ReasonCode()))

	if b.Description() != "" {
		request.sub("comments").value("comment", b.Description()).set("id", "1")
	}

	// A missing amount or currency signs as an empty field.
	request.value("sha1hash", utils.GenerateHash(r.config.SharedSecret,
		timestamp, r.config.MerchantID, orderID, amount, b.Currency(), ""))

	raw, err := r.client.doXML(ctx, request)
	if err != nil {
		return nil, err
	}
	return mapRealexResponse(raw, realexAcceptedCodes(requestType))
}

// ProcessRecurring stores payers and their cards. The gateway answers with a
// bare result, so the entity sent is returned.
func (r *RealexConnector) ProcessRecurring(ctx context.Context, b *payment.RecurringBuilder) ([]payment.RecurringEntity, error) {
	requestType, err := realexRecurringType(b)
	if err != nil {
		return nil, err
	}
	timestamp := utils.GenerateTimestamp()
	orderID := orDefault(b.OrderID(), utils.GenerateOrderID)

	request := newElement("request", "timestamp", timestamp, "type", requestType)
	request.value("merchantid", r.config.MerchantID)
	request.optional("account", r.config.AccountID)
	request.value("orderid", orderID)

	switch entity := b.Entity().(type) {
	case *payment.Customer:
		if entity.Key == "" {
			entity.Key = utils.GenerateRecurringKey()
		}
		request.append(realexPayer(entity))
		request.value("sha1hash", utils.GenerateHash(r.config.SharedSecret,
			timestamp, r.config.MerchantID, orderID, "", "", entity.Key))

	case *payment.RecurringPaymentMethod:
		ref := orDefault(entity.Key, func() string { return entity.ID })
		card := request.sub("card")
		card.value("ref", ref)
		card.value("payerref", entity.CustomerKey)

		if b.TransactionType() == models.Delete {
			request.value("sha1hash", utils.GenerateHash(r.config.SharedSecret,
				timestamp, r.config.MerchantID, entity.CustomerKey, ref))
			break
		}

		data, ok := entity.PaymentMethod.(payment.CardData)
		if !ok {
			break
		}
		entry := data.Card()
		card.value("number", entry.Number())
		card.value("expdate", entry.ShortExpiry())
		card.optional("chname", entry.CardHolderName)
		card.value("type", strings.ToUpper(entry.CardType))

		if b.TransactionType() == models.Create {
			request.value("sha1hash", utils.GenerateHash(r.config.SharedSecret,
				timestamp, r.config.MerchantID, orderID, "", "", entity.CustomerKey,
				entry.CardHolderName, entry.Number()))
		} else {
			request.value("sha1hash", utils.GenerateHash(r.config.SharedSecret,
				timestamp, r.config.MerchantID, entity.CustomerKey, ref,
				entry.ShortExpiry(), entry.Number()))
		}
	}

	raw, err := r.client.doXML(ctx, request)
	if err != nil {
		return nil, err
	}
	root, err := parseXML(raw)
	if err != nil {
		return nil, models.NewGatewayError("Unexpected Response", err)
	}
	if err := checkRealexResponse(root, realexAcceptedCodes(requestType)); err != nil {
		return nil, err
	}
	return []payment.RecurringEntity{b.Entity()}, nil
}

// SerializeRequest renders the hosted payment page request as JSON. Values
// are base64 encoded unless the page runs version 2.
func (r *RealexConnector) SerializeRequest(b *payment.AuthorizationBuilder) (string, error) {
	hpp := r.config.HostedPaymentConfig
	if hpp == nil {
		return "", models.NewApiError("Hosted configuration missing. Please check your configuration.", nil)
	}

	t := b.TransactionType()
	if t != models.Sale && t != models.Auth && t != models.Verify {
		return "", models.NewUnsupportedTransactionError("Only charge, authorize, and verify are supported through HPP.")
	}

	timestamp := orDefault(b.Timestamp(), utils.GenerateTimestamp)
	orderID := orDefault(b.OrderID(), utils.GenerateOrderID)
	amount := ""
	if b.Amount() != nil {
		amount = utils.ToMinorUnits(*b.Amount())
	}

	request := make(map[string]string)
	put := func(key, value string) {
		if value == "" {
			return
		}
		if hpp.Version != models.HppVersion2 {
			value = utils.EncodeString(value)
		}
		request[key] = value
	}
	putFlag := func(key string, v *bool) {
		if v != nil {
			put(key, flag(*v))
		}
	}

	put("MERCHANT_ID", r.config.MerchantID)
	put("ACCOUNT", r.config.AccountID)
	put("CHANNEL", r.config.Channel)
	put("ORDER_ID", orderID)
	put("AMOUNT", amount)
	put("CURRENCY", b.Currency())
	put("TIMESTAMP", timestamp)
	put("AUTO_SETTLE_FLAG", flag(t == models.Sale))
	put("COMMENT1", b.Description())
	putFlag("RETURN_TSS", hpp.RequestTransactionStabilityScore)
	putFlag("DCC_ENABLE", hpp.DynamicCurrencyConversionEnabled)

	data := b.HostedPaymentData()
	if data != nil {
		put("CUST_NUM", data.CustomerNumber)
		if hpp.DisplaySavedCards != nil {
			put("HPP_SELECT_STORED_CARD", data.CustomerKey)
		}
		put("OFFER_SAVE_CARD", flag(isTrue(data.OfferToSaveCard)))
		put("PAYER_EXIST", flag(isTrue(data.CustomerExists)))
		if isTrue(hpp.DisplaySavedCards) {
			put("PAYER_REF", data.CustomerKey)
		}
		put("PMT_REF", data.PaymentKey)
		put("PROD_ID", data.ProductID)
		for key, value := range data.SupplementaryData {
			put(key, value)
		}
	}

	if addr := b.ShippingAddress(); addr != nil {
		put("SHIPPING_CODE", addr.PostalCode)
		put("SHIPPING_CO", addr.Country())
	}
	if addr := b.BillingAddress(); addr != nil {
		put("BILLING_CODE", addr.PostalCode)
		put("BILLING_CO", addr.Country())
	}

	put("CUST_NUM", b.CustomerID())
	put("VAR_REF", b.ClientTransactionID())
	put("HPP_LANG", hpp.Language)
	put("MERCHANT_RESPONSE_URL", hpp.ResponseURL)
	put("CARD_PAYMENT_BUTTON", hpp.PaymentButtonText)
	putFlag("CARD_STORAGE_ENABLE", hpp.CardStorageEnabled)
	if t == models.Verify {
		put("VALIDATE_CARD_ONLY", "1")
	}
	if hpp.FraudFilterMode != "" && hpp.FraudFilterMode != models.FraudFilterNone {
		put("HPP_FRAUDFILTER_MODE", string(hpp.FraudFilterMode))
	}
	if b.RecurringType() != "" || b.RecurringSequence() != "" {
		put("RECURRING_TYPE", strings.ToLower(string(b.RecurringType())))
		put("RECURRING_SEQUENCE", strings.ToLower(string(b.RecurringSequence())))
	}
	put("HPP_VERSION", string(hpp.Version))
	put("HPP_POST_DIMENSIONS", hpp.PostDimensions)
	put("HPP_POST_RESPONSE", hpp.PostResponse)

	toHash := []string{timestamp, r.config.MerchantID, orderID, amount, b.Currency()}
	if isTrue(hpp.CardStorageEnabled) || isTrue(hpp.DisplaySavedCards) ||
		(data != nil && isTrue(data.OfferToSaveCard)) {
		customerKey, paymentKey := "", ""
		if data != nil {
			customerKey, paymentKey = data.CustomerKey, data.PaymentKey
		}
		toHash = append(toHash, customerKey, paymentKey)
	}
	if hpp.FraudFilterMode != "" && hpp.FraudFilterMode != models.FraudFilterNone {
		toHash = append(toHash, string(hpp.FraudFilterMode))
	}
	request["SHA1HASH"] = utils.GenerateHash(r.config.SharedSecret, toHash...)

	out, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("error encoding hosted request: %w", err)
	}
	return string(out), nil
}

func (r *RealexConnector) newRequest(timestamp, requestType, orderID string) *element {
	request := newElement("request", "timestamp", timestamp, "type", requestType)
	request.value("merchantid", r.config.MerchantID)
	request.optional("account", r.config.AccountID)
	request.optional("channel", r.config.Channel)
	request.value("orderid", orderID)
	return request
}

func realexAuthType(b *payment.AuthorizationBuilder) (string, error) {
	credit := isCredit(b.PaymentMethod())
	switch b.TransactionType() {
	case models.Sale, models.Auth:
		if !credit {
			return "receipt-in", nil
		}
		if b.TransactionModifier() == models.Offline {
			return "manual", nil
		}
		return "auth", nil
	case models.Capture:
		return "settle", nil
	case models.Verify:
		if credit {
			return "otb", nil
		}
		if b.TransactionModifier() == models.Secure3D {
			return "realvault-ed5-verify-enrolled", nil
		}
		return "receipt-in-otb", nil
	case models.Refund:
		if credit {
			return "credit", nil
		}
		return "payment-out", nil
	case models.VerifyEnrolled:
		return "3ds-verifyenrolled", nil
	}
	return "", models.NewUnsupportedTransactionError("")
}

func realexManageType(t models.TransactionType) string {
	switch t {
	case models.Capture:
		return "settle"
	case models.Hold:
		return "hold"
	case models.Refund:
		return "rebate"
	case models.Release:
		return "release"
	case models.Void, models.Reversal:
		return "void"
	case models.VerifySignature:
		return "3ds-verifysig"
	}
	return "unknown"
}

func realexRecurringType(b *payment.RecurringBuilder) (string, error) {
	switch b.Entity().(type) {
	case *payment.Customer:
		switch b.TransactionType() {
		case models.Create:
			return "payer-new", nil
		case models.Edit:
			return "payer-edit", nil
		}
	case *payment.RecurringPaymentMethod:
		switch b.TransactionType() {
		case models.Create:
			return "card-new", nil
		case models.Edit:
			return "card-update-card", nil
		case models.Delete:
			return "card-cancel-card", nil
		}
	}
	return "", models.NewUnsupportedTransactionError("")
}

func realexAcceptedCodes(requestType string) []string {
	if requestType == "3ds-verifysig" || requestType == "3ds-verifyenrolled" {
		return []string{"00", "110"}
	}
	return []string{"00"}
}

func checkRealexResponse(root *node, accepted []string) error {
	code, message := root.text("result"), root.text("message")
	for _, c := range accepted {
		if c == code {
			return nil
		}
	}
	return responseError(fmt.Sprintf("Unexpected Gateway Response: %s - %s", code, message), code, message)
}

func mapRealexResponse(raw []byte, accepted []string) (*payment.Transaction, error) {
	root, err := parseXML(raw)
	if err != nil {
		return nil, models.NewGatewayError("Unexpected Response", err)
	}
	if err := checkRealexResponse(root, accepted); err != nil {
		return nil, err
	}

	result := &payment.Transaction{
		ResponseCode:    root.text("result"),
		ResponseMessage: root.text("message"),
		CvnResponseCode: root.text("cvnresult"),
		AvsResponseCode: root.text("avspostcoderesponse"),
		Timestamp:       root.attr("timestamp"),
		TransactionReference: &payment.TransactionReference{
			AuthCode:      root.text("authcode"),
			OrderID:       root.text("orderid"),
			TransactionID: root.text("pasref"),
			Type:          models.PaymentCredit,
		},
	}

	if root.has("enrolled") {
		result.ThreeDSecure = &models.ThreeDSecure{
			Enrolled:                    root.text("enrolled"),
			PayerAuthenticationResponse: root.text("pareq"),
			Xid:                         root.text("xid"),
			IssuerAcsURL:                root.text("url"),
		}
	}
	if tds := root.child("threedsecure"); tds != nil {
		result.ThreeDSecure = &models.ThreeDSecure{
			Status:    tds.text("status"),
			Xid:       tds.text("xid"),
			Cavv:      tds.text("cavv"),
			Eci:       tds.text("eci"),
			Algorithm: tds.text("algorithm"),
		}
	}
	return result, nil
}

// realexAddress renders a tssinfo address. The code joins postal code and
// street; GB addresses keep only their digits.
func realexAddress(addr *models.Address) *element {
	if addr == nil {
		return nil
	}
	code := addr.PostalCode
	if code != "" && !strings.Contains(code, "|") {
		code = addr.PostalCode + "|" + addr.StreetAddress1
		if addr.IsCountry("GB") {
			code = nonDigits.ReplaceAllString(addr.PostalCode, "") + "|" +
				nonDigits.ReplaceAllString(addr.StreetAddress1, "")
		}
	}

	kind := "shipping"
	if addr.Type == models.BillingAddress || addr.Type == "" {
		kind = "billing"
	}
	e := newElement("address", "type", kind)
	e.optional("code", code)
	e.optional("country", orDefault(addr.CountryCode(), addr.Country))
	return e
}

func realexPayer(c *payment.Customer) *element {
	payer := newElement("payer", "ref", c.Key)
	payer.optional("title", c.Title)
	payer.optional("firstname", c.FirstName)
	payer.optional("surname", c.LastName)
	payer.optional("company", c.Company)

	if a := c.Address; a != nil {
		address := payer.sub("address")
		address.optional("line1", a.StreetAddress1)
		address.optional("line2", a.StreetAddress2)
		address.optional("line3", a.StreetAddress3)
		address.optional("city", a.City)
		address.optional("county", a.Province)
		address.optional("postcode", a.PostalCode)
		address.value("country", a.Country()).set("code", a.CountryCode())
	}

	phones := payer.sub("phonenumbers")
	phones.optional("home", c.HomePhone)
	phones.optional("work", c.WorkPhone)
	phones.optional("fax", c.Fax)
	phones.optional("mobile", c.MobilePhone)

	payer.optional("email", c.Email)
	return payer
}

func isCredit(pm payment.PaymentMethod) bool {
	switch pm.(type) {
	case *payment.CreditCardData, *payment.CreditTrackData:
		return true
	}
	return false
}

func passwordHash(password string) string {
	if password == "" {
		return ""
	}
	return utils.GenerateHash(password)
}

func orDefault(v string, fallback func() string) string {
	if v != "" {
		return v
	}
	return fallback()
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func isTrue(v *bool) bool { return v != nil && *v }
