package kinds

import (
	"fmt"

	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
)

const (
	barueriFooter = `<div style="width: 100%; font-size: 9px; text-align: center; color: #888; font-family: sans-serif;">
  <p style="margin: 2px 0;">Avenida Copacabana, n.º 268, Sala 1702, Alphaville, Barueri/SP, CEP: 06472-001 Tel.: (11) 4208-7569</p>
  <p style="margin: 2px 0;">E-mail: contato@sousabritoeribeiro.com.br</p>
</div>`

	barueriRuledFooter = `<section style="width: 100%; font-family: sans-serif; display: flex; flex-direction: column; align-items: center; margin: 0 auto;">
  <div style="width: 65%; border-bottom: 1px solid black;"></div>
  <div style="width: 75px; margin-top: 5px; border-bottom: 1px solid black;"></div>
  <p style="color: #888; font-size: 12px; text-align: center; margin: 5px 0 0 0; line-height: 1.5;">
    Avenida Copacabana, n.º 268, Sala 1702, Alphaville, Barueri/SP, CEP: 06472-001 Tel.: (11) 4208-7569<br/>
    E-mail: contato@sousabritoeribeiro.com.br
  </p>
</section>`

	cajamarFooter = `<div style="width: 100%; text-align: center; font-size: 10pt; color: #777; padding-top: 10px; line-height: 1.4;">
  <hr style="border: 0; border-top: 1px solid #000; margin: 0 auto 10px auto; width: 90%;" />
  <div>
    Rua Flademir Roberto Lopes, n.º 96, Polvilho, Cajamar/SP<br>
    Tel.: (11) 4448-2301<br>
    E-mail: contato@sousabritoeribeiro.com.br
  </div>
</div>`

	signEveryPageFooter = `<div style="width: 100%; font-size: 10px; text-align: center; padding: 0 20px;">
  <p style="font-style: italic;">NOTA: esta declaração deverá ser assinada em todas as suas páginas.</p>
  <span class="pageNumber"></span> / <span class="totalPages"></span>
</div>`

	// An empty band still needs markup, otherwise Chrome prints its own.
	emptyFooter = `<div></div>`
)

func logoHeader(src *assets.Source, justify, imgStyle string) (string, error) {
	logo, err := src.DataURI(assets.Logo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<div style="width:100%%; display: flex; align-items: center; justify-content: %s;">
  <img src="%s" style="height:80px; margin-top: 30px;%s" />
</div>`, justify, logo, imgStyle), nil
}

// DefaultLayout is the firm letterhead: right-aligned logo with the Barueri
// office footer.
func DefaultLayout(src *assets.Source) (compositor.Layout, error) {
	header, err := logoHeader(src, "end", " margin-right: 70px;")
	if err != nil {
		return compositor.Layout{}, err
	}
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "200px", Bottom: "80px"},
		HeaderTemplate:  header,
		FooterTemplate:  barueriFooter,
		PrintBackground: true,
	}, nil
}

func judicialLayout(src *assets.Source) (compositor.Layout, error) {
	header, err := logoHeader(src, "center", "")
	if err != nil {
		return compositor.Layout{}, err
	}
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "200px", Bottom: "80px"},
		HeaderTemplate:  header,
		FooterTemplate:  barueriFooter,
		PrintBackground: true,
	}, nil
}

func personalLayout(src *assets.Source) (compositor.Layout, error) {
	header, err := logoHeader(src, "end", " vertical-align:middle; margin-right: 140px;")
	if err != nil {
		return compositor.Layout{}, err
	}
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "140px", Bottom: "80px"},
		HeaderTemplate:  header,
		FooterTemplate:  barueriRuledFooter,
		PrintBackground: true,
	}, nil
}

func contractLayout(src *assets.Source) (compositor.Layout, error) {
	header, err := logoHeader(src, "center", "")
	if err != nil {
		return compositor.Layout{}, err
	}
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "150px", Bottom: "80px"},
		HeaderTemplate:  header,
		FooterTemplate:  emptyFooter,
		PrintBackground: true,
	}, nil
}

func elderlyLayout(src *assets.Source) (compositor.Layout, error) {
	header, err := logoHeader(src, "flex-end", " margin-right: 100px;")
	if err != nil {
		return compositor.Layout{}, err
	}
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "140px", Right: "20px", Bottom: "100px", Left: "20px"},
		HeaderTemplate:  header,
		FooterTemplate:  cajamarFooter,
		PrintBackground: true,
	}, nil
}

func ruralLayout(*assets.Source) (compositor.Layout, error) {
	return compositor.Layout{
		Margins:         compositor.Margins{Top: "20px", Right: "20px", Bottom: "40px", Left: "20px"},
		FooterTemplate:  signEveryPageFooter,
		PrintBackground: true,
	}, nil
}

func plainLayout(margin string) LayoutFunc {
	return func(*assets.Source) (compositor.Layout, error) {
		return compositor.Layout{
			Margins:         compositor.Uniform(margin),
			PrintBackground: true,
		}, nil
	}
}
