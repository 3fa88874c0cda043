package publishers

import "github.com/samvad-hq/http-methods/pkg/httpmethods"

func testEvent() Event {
	return NewEvent("inv-1",
		httpmethods.Parameters{Server: "https://echo.local", Method: httpmethods.MethodPost},
		httpmethods.Result{Status: 200, Outcome: httpmethods.OutcomeSuccess, Message: httpmethods.MessageSuccess},
	)
}
