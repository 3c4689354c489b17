package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"user-directory/internal/adapter/convert"
	"user-directory/internal/usecase/user"
)

var tableHeader = []string{
	"ID", "FIRST NAME", "LAST NAME", "EMAIL", "PHONE",
	"STREET ADDRESS", "CITY", "REGION", "POSTAL CODE", "COUNTRY",
}

// RenderTable writes the listing as aligned text columns.
func RenderTable(w io.Writer, resp *user.ListUsersResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	writeRow(tw, tableHeader)
	for _, u := range resp.Users {
		writeRow(tw, []string{
			strconv.FormatInt(u.ID, 10), u.FirstName, u.LastName, u.Email, u.Phone,
			u.StreetAddress, u.City, u.Region, u.PostalCode, u.Country,
		})
	}

	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// RenderJSON writes the listing as indented JSON using the API's wire shape.
func RenderJSON(w io.Writer, resp *user.ListUsersResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(convert.ListToWire(resp))
}
