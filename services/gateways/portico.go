package gateways

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payments-sdk/config"
	"payments-sdk/models"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

const (
	porticoEndpoint   = "/Hps.Exchange.PosGateway/PosGatewayService.asmx"
	reportDateLayout  = "2006-01-02T15:04:05Z"
	soapEnvelopeNS    = "http://schemas.xmlsoap.org/soap/envelope/"
	porticoGatewayNS  = "http://Hps.Exchange.PosGateway"
	recurringTypeACH  = "ACH"
	checkActionSale   = "SALE"
	proximityAttrName = "method"
)

var porticoAcceptedCodes = map[string]bool{"00": true, "0": true, "85": true, "10": true}

// PorticoConnector speaks the Portico SOAP API for card, debit, EBT, gift,
// check and recurring-billing transactions.
type PorticoConnector struct {
	config *config.ServicesConfig
	client *gatewayClient
}

func NewPorticoConnector(cfg *config.ServicesConfig, opts ...Option) *PorticoConnector {
	return &PorticoConnector{
		config: cfg,
		client: newGatewayClient("portico", cfg.ServiceURL+porticoEndpoint, "text/xml; charset=UTF-8",
			cfg.Timeout, buildOptions(opts)),
	}
}

func (p *PorticoConnector) SupportsHostedPayments() bool { return false }

func (p *PorticoConnector) SerializeRequest(*payment.AuthorizationBuilder) (string, error) {
	return "", models.NewUnsupportedTransactionError("Portico does not support hosted payments.")
}

func (p *PorticoConnector) ProcessAuthorization(ctx context.Context, b *payment.AuthorizationBuilder) (*payment.Transaction, error) {
	name, err := porticoOperation(b.TransactionType(), b.TransactionModifier(), b.PaymentMethod())
	if err != nil {
		return nil, err
	}

	t := b.TransactionType()
	pm := b.PaymentMethod()
	method := methodType(pm)

	transaction := newElement(name)
	block1 := transaction.sub("Block1")

	if (t == models.Sale || t == models.Auth || t == models.Refund) &&
		method != models.PaymentGift && method != models.PaymentACH {
		block1.value("AllowDup", yn(b.AllowDuplicates()))
		if t != models.Refund && b.TransactionModifier() == models.NoModifier &&
			method != models.PaymentEBT && method != models.PaymentRecurring {
			block1.value("AllowPartialAuth", yn(b.AllowPartialAuth()))
		}
	}

	amountValue(block1, "Amt", b.Amount())
	nonZeroAmount(block1, "GratuityAmtInfo", b.Gratuity())
	nonZeroAmount(block1, "ConvenienceAmtInfo", b.ConvenienceAmount())
	nonZeroAmount(block1, "ShippingAmtInfo", b.ShippingAmount())

	if method == models.PaymentDebit {
		amountValue(block1, "CashbackAmtInfo", b.CashBackAmount())
	} else {
		amountValue(block1, "CashBackAmount", b.CashBackAmount())
	}

	block1.optional("OfflineAuthCode", b.OfflineAuthCode())

	if t == models.Alias {
		block1.value("Action", string(b.AliasAction()))
		block1.value("Alias", b.Alias())
	}

	isCheck := method == models.PaymentACH
	if isCheck || b.BillingAddress() != nil {
		porticoHolder(block1, b, isCheck)
	}

	token := tokenOf(pm)

	// Debit and check data live directly in Block1.
	cardData := block1
	if method != models.PaymentDebit && method != models.PaymentACH {
		cardData = newElement("CardData")
	}

	switch v := pm.(type) {
	case payment.CardData:
		entry := v.Card()
		var manual *element
		if token != "" {
			manual = cardData.sub("TokenData")
			manual.value("TokenValue", token)
		} else {
			manual = cardData.sub("ManualEntry")
			manual.value("CardNbr", entry.Number())
		}
		expiration(manual, entry)
		manual.optional("CVV2", entry.CVN())
		manual.value("ReaderPresent", yn(entry.ReaderPresent))
		manual.value("CardPresent", yn(entry.CardPresent))
		if cardData != block1 {
			block1.append(cardData)
		}

		if cc, ok := pm.(*payment.CreditCardData); ok && cc.ThreeDSecure != nil {
			secure := block1.sub("SecureECommerce")
			secure.optional("PaymentDataSource", cc.ThreeDSecure.PaymentDataSource)
			secure.optional("TypeOfPaymentData", cc.ThreeDSecure.PaymentDataType)
			secure.optional("PaymentData", cc.ThreeDSecure.Cavv)
			secure.optional("ECommerceIndicator", cc.ThreeDSecure.Eci)
			secure.optional("XID", cc.ThreeDSecure.Xid)
		}

		if voucher, ok := pm.(*payment.EBTCardData); ok {
			block1.optional("ElectronicVoucherSerialNbr", voucher.SerialNumber)
			block1.optional("VoucherApprovalCd", voucher.ApprovalCode)
		}

		if b.TransactionModifier() == models.Recurring {
			recurringData(block1, b)
		}

	case payment.TrackData:
		entry := v.Track()
		if token != "" {
			cardData.sub("TokenData").value("TokenValue", token)
		} else {
			attr := string(models.EntrySwipe)
			if entry.EntryMethod == models.EntryProximity {
				attr = string(models.EntryProximity)
			}
			cardData.value("TrackData", entry.Value).set(proximityAttrName, attr)
		}
		if cardData != block1 {
			block1.append(cardData)
		}

	case *payment.GiftCard:
		if b.Currency() != "" {
			block1.value("Currency", strings.ToUpper(b.Currency()))
		}
		if t == models.Replace {
			if replacement := b.ReplacementCard(); replacement != nil {
				newCard := block1.sub("NewCardData")
				newCard.value(replacement.ValueType, replacement.Value)
				newCard.optional("PIN", replacement.Pin)
			}
			cardData = newElement("OldCardData")
		}
		if v.ValueType != "" {
			cardData.value(v.ValueType, v.Value)
		}
		cardData.optional("PIN", v.Pin)
		if b.AliasAction() != models.AliasCreate {
			block1.append(cardData)
		}

	case *payment.ECheck:
		block1.value("CheckAction", checkActionSale)
		if token == "" {
			account := block1.sub("AccountInfo")
			account.optional("RoutingNumber", v.RoutingNumber)
			account.optional("AccountNumber", v.AccountNumber)
			account.optional("CheckNumber", v.CheckNumber)
			account.optional("MICRData", v.MicrNumber)
			account.optional("AccountType", string(v.AccountType))
		} else {
			block1.value("TokenValue", token)
		}
		block1.optional("DataEntryMode", strings.ToUpper(string(v.EntryMode)))
		block1.optional("CheckType", string(v.CheckType))
		block1.optional("SECCode", string(v.SecCode))

		verify := block1.sub("VerifyInfo")
		verify.value("CheckVerify", yn(v.CheckVerify))
		verify.value("ACHVerify", yn(v.AchVerify))

	case *payment.TransactionReference:
		block1.value("GatewayTxnId", v.TransactionID)
		block1.optional("ClientTxnId", v.ClientTransactionID)

	case *payment.RecurringPaymentMethod:
		if v.PaymentType == recurringTypeACH {
			block1.remove("AllowDup")
			block1.value("CheckAction", checkActionSale)
		}
		block1.value("PaymentMethodKey", v.Key)
		if cc, ok := v.PaymentMethod.(*payment.CreditCardData); ok {
			data := block1.sub("PaymentMethodKeyData")
			expiration(data, cc.Card())
			data.optional("CVV2", cc.CVN())
		}
		recurringData(block1, b)
	}

	if pin, ok := pm.(payment.PinProtected); ok && t != models.Reversal {
		block1.optional("PinBlock", pin.PINBlock())
	}

	if enc, ok := pm.(payment.Encryptable); ok && enc.Encryption() != nil {
		data := enc.Encryption()
		e := cardData.sub("EncryptionData")
		e.optional("Version", data.Version)
		e.optional("EncryptedTrackNumber", data.TrackNumber)
		e.optional("KTB", data.KTB)
		e.optional("KSN", data.KSN)
	}

	if _, ok := pm.(payment.Tokenizable); ok {
		cardData.value("TokenRequest", yn(b.RequestMultiUseToken()))
	}

	block1.optional("BalanceInquiryType", string(b.BalanceInquiryType()))

	if b.Level2Request() != nil {
		block1.value("CPCReq", "Y")
	}

	if b.CustomerID() != "" || b.Description() != "" || b.InvoiceNumber() != "" {
		fields := block1.sub("AdditionalTxnFields")
		fields.optional("CustomerID", b.CustomerID())
		fields.optional("Description", b.Description())
		fields.optional("InvoiceNbr", b.InvoiceNumber())
	}

	if info := b.ECommerceInfo(); info != nil {
		block1.value("Ecommerce", string(info.Channel))
		if b.InvoiceNumber() != "" || info.ShipMonth != 0 {
			direct := block1.sub("DirectMktData")
			direct.optional("DirectMktInvoiceNbr", b.InvoiceNumber())
			direct.value("DirectMktShipDay", strconv.Itoa(info.ShipDay))
			direct.value("DirectMktShipMonth", strconv.Itoa(info.ShipMonth))
		}
	}

	block1.optional("TxnDescriptor", b.DynamicDescriptor())

	return p.send(ctx, transaction, b.ClientTransactionID(), pm)
}

func (p *PorticoConnector) ManageTransaction(ctx context.Context, b *payment.ManagementBuilder) (*payment.Transaction, error) {
	name, err := porticoOperation(b.TransactionType(), b.TransactionModifier(), b.PaymentMethod())
	if err != nil {
		return nil, err
	}

	t := b.TransactionType()
	transaction := newElement(name)

	if t != models.BatchClose {
		method := methodType(b.PaymentMethod())
		root := transaction
		if t == models.Reversal || t == models.Refund ||
			method == models.PaymentGift || method == models.PaymentACH {
			root = transaction.sub("Block1")
		}

		amountValue(root, "Amt", b.Amount())
		amountValue(root, "GratuityAmtInfo", b.Gratuity())
		root.value("GatewayTxnId", b.TransactionID())

		if t == models.Reversal {
			root.optional("ClientTxnId", b.ClientTransactionID())
		}

		if t == models.Edit && b.TransactionModifier() == models.LevelII {
			cpc := root.sub("CPCData")
			cpc.optional("CardHolderPONbr", b.PONumber())
			cpc.optional("TaxType", string(b.TaxType()))
			nonZeroAmount(cpc, "TaxAmt", b.TaxAmount())
		}
	}

	return p.send(ctx, transaction, b.ClientTransactionID(), b.PaymentMethod())
}

func (p *PorticoConnector) ProcessReport(ctx context.Context, b *payment.TransactionReportBuilder) ([]*models.TransactionSummary, error) {
	name, err := porticoReportOperation(b.ReportType())
	if err != nil {
		return nil, err
	}

	transaction := newElement(name)
	transaction.optional("TzConversion", string(b.TimeZoneConversion()))
	transaction.optional("DeviceId", b.DeviceID())
	if start := b.StartDate(); start != nil {
		transaction.value("RptStartUtcDT", start.UTC().Format(reportDateLayout))
	}
	if end := b.EndDate(); end != nil {
		transaction.value("RptEndUtcDT", end.UTC().Format(reportDateLayout))
	}
	transaction.optional("TxnId", b.TransactionID())

	raw, err := p.client.doXML(ctx, p.envelope(transaction, ""))
	if err != nil {
		return nil, err
	}
	root, err := p.responseRoot(raw)
	if err != nil {
		return nil, err
	}
	doc := root.path("Transaction", name)
	if doc == nil {
		header := root.child("Header")
		code, text := normalizeResponse(header.text("GatewayRspCode")), header.text("GatewayRspMsg")
		return nil, responseError("Unexpected Response: "+code+" - "+text, code, text)
	}

	if b.ReportType() == models.TransactionDetail {
		return []*models.TransactionSummary{hydrateSummary(doc)}, nil
	}
	details := doc.all("Details")
	summaries := make([]*models.TransactionSummary, 0, len(details))
	for _, d := range details {
		summaries = append(summaries, hydrateSummary(d))
	}
	return summaries, nil
}

func (p *PorticoConnector) send(ctx context.Context, transaction *element, clientTxnID string, pm payment.PaymentMethod) (*payment.Transaction, error) {
	raw, err := p.client.doXML(ctx, p.envelope(transaction, clientTxnID))
	if err != nil {
		return nil, err
	}
	return p.mapResponse(raw, pm)
}

func (p *PorticoConnector) envelope(transaction *element, clientTxnID string) *element {
	envelope := newElement("soap:Envelope", "xmlns:soap", soapEnvelopeNS)
	request := envelope.sub("soap:Body").sub("PosRequest", "xmlns", porticoGatewayNS)
	version := request.sub("Ver1.0")

	header := version.sub("Header")
	header.optional("SecretAPIKey", p.config.SecretAPIKey)
	header.optional("SiteId", p.config.SiteID)
	header.optional("LicenseId", p.config.LicenseID)
	header.optional("DeviceId", p.config.DeviceID)
	header.optional("UserName", p.config.Username)
	header.optional("Password", p.config.Password)
	header.optional("DeveloperID", p.config.DeveloperID)
	header.optional("VersionNumber", p.config.VersionNumber)
	header.optional("ClientTxnId", clientTxnID)

	version.sub("Transaction").append(transaction)
	return envelope
}

// responseRoot returns the Ver1.0 element of a SOAP response.
func (p *PorticoConnector) responseRoot(raw []byte) (*node, error) {
	doc, err := parseXML(raw)
	if err != nil {
		return nil, models.NewGatewayError("Unexpected Response", err)
	}
	root := doc.path("Body", "PosResponse", "Ver1.0")
	if root == nil {
		return nil, models.NewGatewayError("Unexpected Response", nil)
	}
	return root, nil
}

func (p *PorticoConnector) mapResponse(raw []byte, pm payment.PaymentMethod) (*payment.Transaction, error) {
	root, err := p.responseRoot(raw)
	if err != nil {
		return nil, err
	}

	header := root.child("Header")
	code := normalizeResponse(header.text("GatewayRspCode"))
	text := header.text("GatewayRspMsg")
	if !porticoAcceptedCodes[code] {
		return nil, responseError("Unexpected Gateway Response: "+code+" - "+text, code, text)
	}

	txn := root.child("Transaction")
	if txn == nil || len(txn.Children) == 0 {
		return nil, responseError("Unexpected Response: "+code+" - "+text, code, text)
	}
	item := txn.Children[0]

	result := &payment.Transaction{
		AuthorizedAmount:      utils.ParseAmount(item.text("AuthAmt")),
		AvailableBalance:      utils.ParseAmount(item.text("AvailableBalance")),
		AvsResponseCode:       item.text("AVSRsltCode"),
		AvsResponseMessage:    item.text("AVSRsltText"),
		BalanceAmount:         utils.ParseAmount(item.text("BalanceAmt")),
		CardType:              item.text("CardType"),
		CardLast4:             item.text("TokenPANLast4"),
		CavvResponseCode:      item.text("CAVVResultCode"),
		CommercialIndicator:   item.text("CPCInd"),
		CvnResponseCode:       item.text("CVVRsltCode"),
		CvnResponseMessage:    item.text("CVVRsltText"),
		EmvIssuerResponse:     item.text("EMVIssuerResp"),
		PointsBalanceAmount:   utils.ParseAmount(item.text("PointsBalanceAmt")),
		RecurringDataCode:     item.text("RecurringDataCode"),
		ReferenceNumber:       item.text("RefNbr"),
		ResponseCode:          code,
		ResponseMessage:       text,
		TransactionDescriptor: item.text("TxnDescriptor"),
	}

	if item.has("RspCode") {
		result.ResponseCode = normalizeResponse(item.text("RspCode"))
	}
	if item.has("RspText") {
		result.ResponseMessage = item.text("RspText")
	} else if item.has("RspMessage") {
		result.ResponseMessage = item.text("RspMessage")
	}

	if pm != nil {
		result.TransactionReference = &payment.TransactionReference{
			Type:          pm.PaymentMethodType(),
			TransactionID: header.text("GatewayTxnId"),
			AuthCode:      item.text("AuthCode"),
		}
	}

	if card := item.child("CardData"); card != nil {
		gift := &payment.GiftCard{Pin: card.text("PIN")}
		if number := card.text("CardNbr"); number != "" {
			gift.SetNumber(number)
		} else if alias := card.text("Alias"); alias != "" {
			gift.SetAlias(alias)
		}
		result.GiftCard = gift
	}

	if tokenData := header.child("TokenData"); tokenData != nil {
		result.Token = tokenData.text("TokenValue")
	}

	if item.has("BatchId") {
		count, _ := strconv.Atoi(item.text("TxnCnt"))
		result.BatchSummary = &models.BatchSummary{
			ID:               item.text("BatchId"),
			TransactionCount: count,
			TotalAmount:      utils.ParseAmount(item.text("TotalAmt")),
			SequenceNumber:   item.text("BatchSeqNbr"),
		}
	}

	if mac := item.child("DebitMac"); mac != nil {
		result.DebitMac = &models.DebitMac{
			TransactionCode:           mac.text("TransactionCode"),
			TransmissionNumber:        mac.text("TransmissionNumber"),
			BankResponseCode:          mac.text("BankResponseCode"),
			MacKey:                    mac.text("MacKey"),
			PinKey:                    mac.text("PinKey"),
			FieldKey:                  mac.text("FieldKey"),
			TraceNumber:               mac.text("TraceNumber"),
			MessageAuthenticationCode: mac.text("MessageAuthenticationCode"),
		}
	}

	return result, nil
}

func hydrateSummary(item *node) *models.TransactionSummary {
	return &models.TransactionSummary{
		Amount:                 utils.ParseAmount(item.text("Amt")),
		AuthorizedAmount:       utils.ParseAmount(item.text("AuthAmt")),
		AuthCode:               item.text("AuthCode"),
		ClientTransactionID:    item.text("ClientTxnId"),
		DeviceID:               item.text("DeviceId"),
		IssuerResponseCode:     firstText(item, "RspCode", "IssuerRspCode"),
		IssuerResponseMessage:  firstText(item, "RspText", "IssuerRspText"),
		MaskedCardNumber:       item.text("MaskedCardNbr"),
		OriginalTransactionID:  item.text("OriginalGatewayTxnId"),
		GatewayResponseCode:    normalizeResponse(item.text("GatewayRspCode")),
		GatewayResponseMessage: item.text("GatewayResponseMsg"),
		ReferenceNumber:        item.text("RefNbr"),
		ServiceName:            item.text("ServiceName"),
		SettlementAmount:       utils.ParseAmount(item.text("SettlementAmt")),
		Status:                 firstText(item, "TxnStatus", "Status"),
		TransactionDate:        parseReportDate(firstText(item, "TxnUtcDT", "ReqUtcDT")),
		TransactionID:          item.text("GatewayTxnId"),
		ConvenienceAmount:      utils.ParseAmount(item.text("ConvenienceAmtInfo")),
		ShippingAmount:         utils.ParseAmount(item.text("ShippingAmtInfo")),
	}
}

// porticoHolder writes the card holder or, for checks, the consumer block.
func porticoHolder(block1 *element, b *payment.AuthorizationBuilder, isCheck bool) {
	name := "CardHolderData"
	if isCheck {
		name = "ConsumerInfo"
	}
	holder := block1.sub(name)

	if addr := b.BillingAddress(); addr != nil {
		if isCheck {
			holder.optional("Address1", addr.StreetAddress1)
			holder.optional("City", addr.City)
			holder.optional("State", addr.State())
			holder.optional("Zip", addr.PostalCode)
		} else {
			holder.optional("CardHolderAddr", addr.StreetAddress1)
			holder.optional("CardHolderCity", addr.City)
			holder.optional("CardHolderState", addr.State())
			holder.optional("CardHolderZip", addr.PostalCode)
		}
	}

	check, ok := b.PaymentMethod().(*payment.ECheck)
	if !ok {
		return
	}
	if check.CheckHolderName != "" {
		names := strings.SplitN(check.CheckHolderName, " ", 2)
		holder.value("FirstName", names[0])
		if len(names) > 1 {
			holder.value("LastName", names[1])
		}
	}
	holder.optional("CheckName", check.CheckName)
	holder.optional("PhoneNumber", check.PhoneNumber)
	holder.optional("DLNumber", check.DriversLicenseNumber)
	holder.optional("DLState", check.DriversLicenseState)

	if check.SsnLast4 != "" || check.BirthYear != "" {
		identity := holder.sub("IdentityInfo")
		identity.optional("SSNL4", check.SsnLast4)
		identity.optional("DOBYear", check.BirthYear)
	}
}

func recurringData(block1 *element, b *payment.AuthorizationBuilder) {
	recurring := block1.sub("RecurringData")
	recurring.optional("ScheduleID", b.ScheduleID())
	recurring.value("OneTime", yn(b.OneTimePayment()))
}

func expiration(e *element, card *payment.ManualEntry) {
	if card.ExpMonth > 0 {
		e.value("ExpMonth", strconv.Itoa(card.ExpMonth))
	}
	if card.ExpYear > 0 {
		e.value("ExpYear", strconv.Itoa(card.ExpYear))
	}
}

func amountValue(e *element, name string, amount *decimal.Decimal) {
	if amount != nil {
		e.value(name, utils.FormatAmount(*amount))
	}
}

func nonZeroAmount(e *element, name string, amount *decimal.Decimal) {
	if amount != nil && !amount.IsZero() {
		e.value(name, utils.FormatAmount(*amount))
	}
}

func methodType(pm payment.PaymentMethod) models.PaymentMethodType {
	if pm == nil {
		return models.PaymentReference
	}
	return pm.PaymentMethodType()
}

func tokenOf(pm payment.PaymentMethod) string {
	switch v := pm.(type) {
	case payment.Tokenizable:
		return v.TokenValue()
	case *payment.ECheck:
		return v.Token
	}
	return ""
}

func normalizeResponse(code string) string {
	if code == "0" || code == "85" {
		return "00"
	}
	return code
}

func firstText(n *node, names ...string) string {
	for _, name := range names {
		if n.has(name) {
			return n.text(name)
		}
	}
	return ""
}

func parseReportDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
