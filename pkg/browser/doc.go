// Package browser drives a running Cookie Clicker page.
//
// Session owns the playwright browser and implements Driver, the small set
// of element operations the game flows need. Client builds the flows on
// top of a Driver: exporting and importing saves through the options menu,
// clicking the big cookie and buying from the store. Client serializes all
// operations since the page has a single set of menus and prompts.
//
// Basic usage:
//
//	session, err := browser.Launch(browser.Options{URL: config.DefaultGameURL, Headless: true})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	client := browser.NewClient(session)
//	code, err := client.ExportSave(ctx)
package browser
