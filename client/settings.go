package client

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

/*

Common client settings

*/

const (
	brandName          = "Sudoku Solver"
	templatePageSuffix = "Page.tmpl.html"

	defaultTemplateDirectoryEnvVar = "TEMPLATE_DIRECTORY"
	defaultStaticDirectoryEnvVar   = "STATIC_DIRECTORY"

	applicationNameEnvVar     = "APPLICATION_NAME"
	applicationEnvEnvVar      = "APPLICATION_ENV"
	applicationVersionEnvVar  = "APPLICATION_VERSION"
	applicationInstanceEnvVar = "APPLICATION_INSTANCE"
	applicationBuildEnvVar    = "APPLICATION_BUILD"

	iconPath      = "/favicon.ico"
	reportBugPath = "/bugreport.html"
)

var (
	defaultStaticDirectory   = "static"
	defaultTemplateDirectory = filepath.Join(defaultStaticDirectory, "tmpl")
	staticResourcePaths      = map[string]string{
		iconPath:      filepath.Join("special", "icon.svg"),
		"/robots.txt": filepath.Join("special", "robots.txt"),
		reportBugPath: filepath.Join("special", "report_bug.html"),
	}
)

/*

Resource verification

*/

// VerifyResources - check that the static and template resource
// directories can be found, return an error if not.
func VerifyResources() error {
	staticDirectory := findStaticDirectory()
	if fi, err := os.Stat(staticDirectory); err != nil {
		return fmt.Errorf("Can't find static directory %q: %v", staticDirectory, err)
	} else if !fi.IsDir() {
		return fmt.Errorf("Static path %q is not a directory", staticDirectory)
	}
	templateDirectory := findTemplateDirectory()
	if fi, err := os.Stat(templateDirectory); err != nil {
		return fmt.Errorf("Can't find template directory %q: %v", templateDirectory, err)
	} else if !fi.IsDir() {
		return fmt.Errorf("Template path %q is not a directory", templateDirectory)
	}
	return nil
}

// findStaticDirectory - find the static directory, looking first
// at the environment for an override.
func findStaticDirectory() string {
	if dir := os.Getenv(defaultStaticDirectoryEnvVar); dir != "" {
		return dir
	}
	return defaultStaticDirectory
}

// findTemplateDirectory - find the template directory, looking
// first at the environment for an override.
func findTemplateDirectory() string {
	if dir := os.Getenv(defaultTemplateDirectoryEnvVar); dir != "" {
		return dir
	}
	return defaultTemplateDirectory
}

/*

Static resources

*/

// StaticHandler: serve one of the registered static resources.
// Returns true if the request path named a registered resource,
// false if the caller should handle the request some other way.
func StaticHandler(w http.ResponseWriter, r *http.Request) bool {
	relpath, ok := staticResourcePaths[r.URL.Path]
	if !ok {
		return false
	}
	path := filepath.Join(findStaticDirectory(), relpath)
	log.Printf("Serving static resource for %q", r.URL.Path)
	http.ServeFile(w, r, path)
	return true
}

/*

Page templates

*/

// loadedTemplates is the cache of already-parsed templates.  The
// mutex covers it, since pages can be rendered from concurrent
// request handlers.
var (
	loadedTemplates = make(map[string]*template.Template)
	loadedMutex     sync.Mutex
)

// loadPageTemplate does what you would expect: give it the
// template name, and it will find and parse the template file
// and return the resulting template.
func loadPageTemplate(name string) (*template.Template, error) {
	loadedMutex.Lock()
	defer loadedMutex.Unlock()
	if tmpl, ok := loadedTemplates[name]; ok {
		return tmpl, nil
	}
	fp := filepath.Join(findTemplateDirectory(), name+templatePageSuffix)
	tmpl, err := template.ParseFiles(fp)
	if err != nil {
		return nil, err
	}
	loadedTemplates[name] = tmpl
	return tmpl, nil
}
