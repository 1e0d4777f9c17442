package tui

import (
	"fmt"
	"strings"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/catalog"
	"github.com/charmpack/charmpack/internal/domain/naming"
)

// RenderProfiles renders the registered extensions as a table.
func RenderProfiles(profiles []domain.FrameworkProfile, version string) string {
	var b strings.Builder

	title := headerStyle.Render("charmpack")
	subtitle := dimStyle.Render(fmt.Sprintf("Framework extensions · profiles %s", version))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s %s %s\n",
		titleStyle.Render(padRight("EXTENSION", 24)),
		titleStyle.Render(padRight("PREFIX", 8)),
		titleStyle.Render(padRight("OPTIONS", 8)),
		titleStyle.Render("DESCRIPTION"),
	)
	b.WriteString("  " + separatorLine + "\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			sectionStyle.Render(padRight(p.Tag, 24)),
			dimStyle.Render(padRight(p.Prefix, 8)),
			dimStyle.Render(padRight(fmt.Sprint(len(p.Options)), 8)),
			dimStyle.Render(p.Description),
		)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderProfile renders everything one extension injects.
func RenderProfile(p domain.FrameworkProfile) string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(headerStyle.Render(p.Tag) + "\n" + dimStyle.Render(p.Description)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n  %s %s\n", sectionStyle.Render("Options"), dimStyle.Render(fmt.Sprintf("(%d)", len(p.Options))))
	for _, o := range p.Options {
		env := o.Env
		if env == "" {
			env = naming.EnvName(p.Prefix, o.Name)
		}
		fmt.Fprintf(&b, "    %s %s %s\n",
			titleStyle.Render(padRight(o.Name, 34)),
			infoTagStyle.Render(padRight(string(o.Type), 8)),
			dimStyle.Render(env),
		)
	}

	for _, role := range domain.IntegrationRoles {
		decls := p.Integrations[role]
		if len(decls) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s %s\n", sectionStyle.Render(strings.ToUpper(string(role[:1]))+string(role[1:])), dimStyle.Render(fmt.Sprintf("(%d)", len(decls))))
		for _, key := range domain.SortedKeys(decls) {
			d := decls[key]
			var flags []string
			if d.IsOptional() {
				flags = append(flags, "optional")
			}
			if d.Immutable {
				flags = append(flags, "immutable")
			}
			if entry, ok := catalog.Lookup(d.Interface); ok {
				flags = append([]string{string(entry.Category)}, flags...)
			}
			fmt.Fprintf(&b, "    %s %s %s\n",
				titleStyle.Render(padRight(key, 24)),
				dimStyle.Render(padRight(d.Interface, 20)),
				faintStyle.Render(strings.Join(flags, ", ")),
			)
		}
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Services"))
	fmt.Fprintf(&b, "    %s\n", dimStyle.Render(fmt.Sprintf("*%s → worker, *%s → scheduler, otherwise primary", p.WorkerSuffix, p.SchedulerSuffix)))

	if len(p.RootKeys) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Injected keys"))
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(strings.Join(p.RootKeys.Keys(), ", ")))
	}

	b.WriteString("\n")
	return b.String()
}

// RenderInterfaces renders the named catalog interfaces with their
// category and the variable suffixes a required endpoint receives.
func RenderInterfaces(names []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s %s %s\n",
		titleStyle.Render(padRight("INTERFACE", 20)),
		titleStyle.Render(padRight("CATEGORY", 14)),
		titleStyle.Render("VARIABLES"),
	)
	b.WriteString("  " + separatorLine + "\n")
	for _, name := range names {
		entry, ok := catalog.Lookup(name)
		if !ok {
			continue
		}
		suffixes := make([]string, 0, len(entry.Variables))
		for _, v := range entry.Variables {
			suffixes = append(suffixes, "*"+v.Suffix)
		}
		vars := strings.Join(suffixes, " ")
		if vars == "" {
			vars = "-"
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			sectionStyle.Render(padRight(name, 20)),
			infoTagStyle.Render(padRight(string(entry.Category), 14)),
			faintStyle.Render(vars),
		)
	}
	b.WriteString("\n")
	return b.String()
}
