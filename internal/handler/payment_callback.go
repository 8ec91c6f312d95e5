package handler

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// callbackFailedURL is where the bridge sends the browser when the gateway
// POST cannot be read.
const callbackFailedURL = "/payment/result?error=callback_failed"

// passthroughFields are copied to the result page when present, after the
// reservation code and the three identifying fields.
var passthroughFields = []string{"resultMsg", "payMethod", "cardCode", "cardName", "cardNum"}

// PaymentCallback handles POST /api/payment/callback?reservationCode=….
// The gateway posts its authorization result as a form; the bridge turns
// it into a 303 GET of /payment/result so the browser lands on a normal
// page.  It never answers with an error status: anything it cannot read
// sends the browser to the result page with error=callback_failed.
func PaymentCallback(c echo.Context) error {
	form, err := callbackForm(c.Request())
	if err != nil {
		c.Logger().Warnf("payment-callback: unreadable body: %v", err)
		return c.Redirect(http.StatusSeeOther, callbackFailedURL)
	}
	c.Logger().Infof("payment-callback: received %v", form)

	target := callbackRedirect(c.QueryParam("reservationCode"), form)
	c.Logger().Infof("payment-callback: redirecting to %s", target)
	return c.Redirect(http.StatusSeeOther, target)
}

// callbackForm parses the POST body only; the query string is read
// separately so a body field can never shadow reservationCode.
func callbackForm(r *http.Request) (url.Values, error) {
	ct, _, err := mime.ParseMediaType(r.Header.Get(echo.HeaderContentType))
	if err != nil {
		return nil, err
	}
	switch ct {
	case echo.MIMEApplicationForm:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	case echo.MIMEMultipartForm:
		if err := r.ParseMultipartForm(32 << 10); err != nil {
			return nil, err
		}
	default:
		return nil, &echo.HTTPError{Code: http.StatusUnsupportedMediaType, Message: "unsupported content type " + ct}
	}
	return r.PostForm, nil
}

// callbackValue looks up key as given, lower-cased and with its first letter
// upper-cased.
func callbackValue(form url.Values, key string) string {
	for _, k := range []string{key, strings.ToLower(key), strings.ToUpper(key[:1]) + key[1:]} {
		if v := form.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func firstCallbackValue(form url.Values, keys ...string) string {
	for _, k := range keys {
		if v := callbackValue(form, k); v != "" {
			return v
		}
	}
	return ""
}

// callbackRedirect builds the result page URL.  The parameter order is
// fixed (reservationCode, resultCode, orderId, tid, then the pass-through
// fields) which url.Values.Encode would not keep.
func callbackRedirect(reservationCode string, form url.Values) string {
	var pairs []string
	add := func(k, v string) {
		if v != "" {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	add("reservationCode", reservationCode)
	add("resultCode", firstCallbackValue(form, "resultCode", "ResultCode"))
	add("orderId", firstCallbackValue(form, "orderId", "moid", "Moid"))
	add("tid", firstCallbackValue(form, "tid", "Tid", "TID"))
	for _, k := range passthroughFields {
		add(k, callbackValue(form, k))
	}
	if len(pairs) == 0 {
		return "/payment/result"
	}
	return "/payment/result?" + strings.Join(pairs, "&")
}
