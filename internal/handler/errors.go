package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
)

// ErrorHandler replaces Echo's default error rendering so unmatched
// routes, panics and unexpected errors all answer with the envelope.
// Internal error text is shown only when showError is set.
func ErrorHandler(showError bool) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        code := http.StatusInternalServerError
        resp := ErrorResponse{Message: "Something went wrong!"}

        var he *echo.HTTPError
        if errors.As(err, &he) {
            code = he.Code
            switch {
            case code == http.StatusNotFound:
                resp.Message = "Route not found"
            case code == http.StatusMethodNotAllowed:
                resp.Message = "Method not allowed"
            case code < http.StatusInternalServerError:
                if s, ok := he.Message.(string); ok {
                    resp.Message = s
                } else {
                    resp.Message = http.StatusText(code)
                }
            }
        }
        if code >= http.StatusInternalServerError {
            c.Logger().Error(err)
            resp.Error = errorText(err, showError)
        }

        var werr error
        if c.Request().Method == http.MethodHead {
            werr = c.NoContent(code)
        } else {
            werr = c.JSON(code, resp)
        }
        if werr != nil {
            c.Logger().Error(werr)
        }
    }
}

// RouteNotFound answers any path no route matched.
func RouteNotFound(c echo.Context) error {
    return echo.ErrNotFound
}
