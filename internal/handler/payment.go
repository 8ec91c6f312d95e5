package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/classhub/classhub-web/internal/service"
)

const msgInvalidCheckout = "결제 정보가 올바르지 않습니다."

// CheckoutConfig is what the checkout page needs to launch the gateway.
type CheckoutConfig struct {
	ClientID      string // gateway client id
	ScriptURL     string // hosted checkout script
	PublicBaseURL string // base of the returnUrl the gateway posts to
}

// checkout is the data of the gateway launch page.
type checkout struct {
	ClientID  string
	ScriptURL string
	OrderID   string
	Amount    int64
	GoodsName string
	BuyerName string
	BuyerTel  string
	ReturnURL string
}

// PaymentHandler serves the checkout and result pages.
type PaymentHandler struct {
	Reconciler *service.Reconciler
	Checkout   CheckoutConfig
}

// NewPaymentHandler constructs a PaymentHandler and panics if the
// reconciler is nil.
func NewPaymentHandler(reconciler *service.Reconciler, cfg CheckoutConfig) *PaymentHandler {
	if reconciler == nil {
		panic("nil reconciler passed to NewPaymentHandler")
	}
	return &PaymentHandler{Reconciler: reconciler, Checkout: cfg}
}

// CheckoutPage handles GET /payment.  Every parameter is required.
func (h *PaymentHandler) CheckoutPage(c echo.Context) error {
	amount, err := strconv.ParseInt(c.QueryParam("amount"), 10, 64)
	co := checkout{
		ClientID:  h.Checkout.ClientID,
		ScriptURL: h.Checkout.ScriptURL,
		OrderID:   c.QueryParam("orderId"),
		Amount:    amount,
		GoodsName: c.QueryParam("goodsName"),
		BuyerName: c.QueryParam("buyerName"),
		BuyerTel:  c.QueryParam("buyerTel"),
	}
	code := c.QueryParam("reservationCode")
	if err != nil || amount <= 0 || co.OrderID == "" || co.GoodsName == "" || co.BuyerName == "" || co.BuyerTel == "" || code == "" {
		return renderError(c, errorPage{Status: http.StatusBadRequest, Heading: "결제 오류", Message: msgInvalidCheckout})
	}
	co.ReturnURL = h.Checkout.PublicBaseURL + "/api/payment/callback?reservationCode=" + url.QueryEscape(code)
	return c.Render(http.StatusOK, "checkout.html", echo.Map{
		"Title":    "결제",
		"Checkout": co,
	})
}

// Result handles GET /payment/result.  error=callback_failed comes from the
// callback bridge and is shown without consulting the backend; everything
// else goes through the reconciler.
func (h *PaymentHandler) Result(c echo.Context) error {
	params := c.QueryParams()
	var res service.PaymentResult
	if params.Get("error") == "callback_failed" {
		res = service.PaymentResult{Message: "결제 결과를 확인하지 못했습니다. 예약 조회에서 상태를 확인해주세요."}
	} else {
		res = h.Reconciler.Reconcile(c.Request().Context(), params)
	}
	classCode := ""
	if res.Reservation != nil {
		classCode = res.Reservation.ClassCode
	}
	if !res.Success {
		c.Logger().Infof("payment-result: failure for %q: %s", params.Get("reservationCode"), res.Message)
	}
	return c.Render(http.StatusOK, "payment_result.html", echo.Map{
		"Title":     "결제 결과",
		"Result":    res,
		"ClassCode": classCode,
	})
}
